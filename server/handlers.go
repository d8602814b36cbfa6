package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/cavern/internal/check"
	"github.com/dekarrin/cavern/internal/dat"
	"github.com/dekarrin/cavern/internal/fix"
	"github.com/dekarrin/cavern/internal/reach"
	"github.com/dekarrin/cavern/internal/snapshot"
	"github.com/dekarrin/cavern/internal/version"
)

const apiPathPrefix = "/api/v1"

func (cs *CavernServer) routes() chi.Router {
	r := chi.NewRouter()

	r.Route(apiPathPrefix, func(r chi.Router) {
		r.Get("/info", cs.handleGetInfo)

		r.Route("/maps", func(r chi.Router) {
			r.Post("/", cs.handlePostMap)
			r.Get("/", cs.handleListMaps)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cs.handleGetMap)
				r.Delete("/", cs.handleDeleteMap)
				r.Get("/diagnostics", cs.handleGetDiagnostics)
				r.Get("/analysis", cs.handleGetAnalysis)
				r.Post("/fixes", cs.handlePostFixes)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeErr(w, http.StatusNotFound, "the requested resource does not exist")
	})

	return r
}

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	Version string `json:"version"`
}

func (cs *CavernServer) handleGetInfo(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{Version: version.ServerCurrent})
}

// UploadMapRequest is the body of POST /maps.
type UploadMapRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// MapSummary describes one stored map in listings and upload responses.
type MapSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

func summarize(id uuid.UUID, snap snapshot.Snapshot) MapSummary {
	sum := MapSummary{ID: id.String(), Name: snap.Name}
	for _, d := range snap.Diagnostics {
		if d.Severity == check.Error {
			sum.Errors++
		} else {
			sum.Warnings++
		}
	}
	return sum
}

func (cs *CavernServer) handlePostMap(w http.ResponseWriter, req *http.Request) {
	var upload UploadMapRequest
	if err := parseJSONBody(req, &upload); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	if upload.Content == "" {
		writeErr(w, http.StatusBadRequest, "content: property is empty or missing from request")
		return
	}

	doc, _, err := dat.Parse(upload.Content)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "content: "+err.Error())
		return
	}

	snap := snapshot.Snapshot{
		Name:        upload.Name,
		Source:      doc.Source(),
		Diagnostics: check.Validate(doc, cs.tbl),
	}

	id, err := cs.store.Add(snap)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, summarize(id, snap))
}

func (cs *CavernServer) handleListMaps(w http.ResponseWriter, req *http.Request) {
	sums := []MapSummary{}
	for _, id := range cs.store.IDs() {
		snap, err := cs.store.Get(id)
		if err != nil {
			continue
		}
		sums = append(sums, summarize(id, snap))
	}
	writeJSON(w, http.StatusOK, sums)
}

// MapResponse is the body of GET /maps/{id}.
type MapResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (cs *CavernServer) getStored(w http.ResponseWriter, req *http.Request) (uuid.UUID, snapshot.Snapshot, bool) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "id is not a valid UUID")
		return uuid.UUID{}, snapshot.Snapshot{}, false
	}

	snap, err := cs.store.Get(id)
	if err != nil {
		if errors.Is(err, ErrMapNotFound) {
			writeErr(w, http.StatusNotFound, err.Error())
		} else {
			writeErr(w, http.StatusInternalServerError, err.Error())
		}
		return uuid.UUID{}, snapshot.Snapshot{}, false
	}

	return id, snap, true
}

func (cs *CavernServer) handleGetMap(w http.ResponseWriter, req *http.Request) {
	id, snap, ok := cs.getStored(w, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, MapResponse{ID: id.String(), Name: snap.Name, Content: snap.Source})
}

func (cs *CavernServer) handleDeleteMap(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "id is not a valid UUID")
		return
	}

	if err := cs.store.Delete(id); err != nil {
		if errors.Is(err, ErrMapNotFound) {
			writeErr(w, http.StatusNotFound, err.Error())
		} else {
			writeErr(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// DiagnosticResponse is one diagnostic in GET /maps/{id}/diagnostics.
type DiagnosticResponse struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Section  string `json:"section,omitempty"`
}

func (cs *CavernServer) handleGetDiagnostics(w http.ResponseWriter, req *http.Request) {
	_, snap, ok := cs.getStored(w, req)
	if !ok {
		return
	}

	resp := []DiagnosticResponse{}
	for _, d := range snap.Diagnostics {
		resp = append(resp, DiagnosticResponse{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Line:     d.Line,
			Col:      d.Col,
			Section:  d.Section,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// AnalysisResponse is the body of GET /maps/{id}/analysis.
type AnalysisResponse struct {
	Origin             [2]int   `json:"origin"`
	ReachableTiles     int      `json:"reachable_tiles"`
	IsolatedRegions    int      `json:"isolated_regions"`
	ChokePoints        [][2]int `json:"choke_points"`
	AccessibilityRatio float64  `json:"accessibility_ratio"`
}

func (cs *CavernServer) handleGetAnalysis(w http.ResponseWriter, req *http.Request) {
	_, snap, ok := cs.getStored(w, req)
	if !ok {
		return
	}

	doc, _, err := dat.Parse(snap.Source)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "stored map no longer parses: "+err.Error())
		return
	}

	opts := reach.Options{Table: cs.tbl}

	q := req.URL.Query()
	if q.Get("row") != "" || q.Get("col") != "" {
		row, rowErr := strconv.Atoi(q.Get("row"))
		col, colErr := strconv.Atoi(q.Get("col"))
		if rowErr != nil || colErr != nil {
			writeErr(w, http.StatusBadRequest, "row and col must both be integers")
			return
		}
		opts.Origin = &reach.Point{Row: row, Col: col}
	}
	if q.Get("mine") == "1" || q.Get("mine") == "true" {
		opts.CanMine = true
	}

	res := reach.Analyze(doc, opts)

	chokes := [][2]int{}
	for _, p := range res.ChokePoints {
		chokes = append(chokes, [2]int{p.Row, p.Col})
	}

	writeJSON(w, http.StatusOK, AnalysisResponse{
		Origin:             [2]int{res.Origin.Row, res.Origin.Col},
		ReachableTiles:     len(res.Reachable),
		IsolatedRegions:    res.IsolatedRegions,
		ChokePoints:        chokes,
		AccessibilityRatio: res.AccessibilityRatio,
	})
}

// FixesResponse is the body of POST /maps/{id}/fixes.
type FixesResponse struct {
	Applied int    `json:"applied"`
	Content string `json:"content"`
}

// handlePostFixes applies every safe automatic fix to the stored map,
// repeatedly re-validating, and stores the corrected source back under the
// same ID.
func (cs *CavernServer) handlePostFixes(w http.ResponseWriter, req *http.Request) {
	id, snap, ok := cs.getStored(w, req)
	if !ok {
		return
	}

	doc, _, err := dat.Parse(snap.Source)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "stored map no longer parses: "+err.Error())
		return
	}

	applied := 0
	for {
		progressed := false
		for _, d := range check.Validate(doc, cs.tbl) {
			if fixed := fix.Propose(doc, d, cs.tbl); fixed != nil {
				doc = fixed
				applied++
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}

	snap.Source = doc.Source()
	snap.Diagnostics = check.Validate(doc, cs.tbl)
	if err := cs.store.Replace(id, snap); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, FixesResponse{Applied: applied, Content: snap.Source})
}
