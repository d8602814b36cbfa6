package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// file response.go has the JSON response and request-body helpers shared by
// every handler.

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, respObj interface{}) {
	var respJSON []byte
	if respObj != nil {
		var err error
		respJSON, err = json.Marshal(respObj)
		if err != nil {
			log.Printf("ERROR could not marshal response: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if respJSON != nil {
		w.Write(respJSON)
	}
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Status: status})
}

// maxBodyLen caps uploaded map sources; a DAT file measured in tens of
// megabytes is not a map, it is a mistake.
const maxBodyLen = 16 * 1024 * 1024

func parseJSONBody(req *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBodyLen))
	if err != nil {
		return err
	}
	defer req.Body.Close()

	return json.Unmarshal(body, v)
}
