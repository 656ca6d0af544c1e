// Package api exposes the ternary, transition, kamea, and figurate cores
// as JSON endpoints over gorilla/mux.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
	"github.com/TheDaniel418/isopgem-cores/internal/cache"
	"github.com/TheDaniel418/isopgem-cores/internal/figurate"
	"github.com/TheDaniel418/isopgem-cores/internal/kamea"
	"github.com/TheDaniel418/isopgem-cores/internal/store"
	"github.com/TheDaniel418/isopgem-cores/internal/ternary"
	"github.com/TheDaniel418/isopgem-cores/internal/transition"
)

// Server hosts the core HTTP surface: a gorilla/mux router, the loaded
// Kamea grid, and the aspect cache. A collaboration layer (internal/collab)
// registers its own routes onto the same router from the composition root.
type Server struct {
	router *mux.Router
	grid   *kamea.Grid
	aspect *cache.AspectCache
	port   int
}

// NewServer creates an API server over a pre-loaded Kamea grid and aspect
// cache, and registers its own routes.
func NewServer(port int, grid *kamea.Grid, aspect *cache.AspectCache) *Server {
	s := &Server{
		router: mux.NewRouter(),
		grid:   grid,
		aspect: aspect,
		port:   port,
	}
	s.registerRoutes()
	return s
}

// Router returns the underlying mux.Router so other layers (collab) can
// register additional routes before the server starts.
func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/api/v1/health", s.corsMiddleware(s.handleHealth)).Methods("GET", "OPTIONS")

	s.router.HandleFunc("/api/v1/ternary/convert", s.corsMiddleware(s.handleTernaryConvert)).Methods("POST", "OPTIONS")

	s.router.HandleFunc("/api/v1/transition/apply", s.corsMiddleware(s.handleTransitionApply)).Methods("POST", "OPTIONS")
	s.router.HandleFunc("/api/v1/transition/conrune", s.corsMiddleware(s.handleTransitionConrune)).Methods("POST", "OPTIONS")
	s.router.HandleFunc("/api/v1/transition/iterate", s.corsMiddleware(s.handleTransitionIterate)).Methods("POST", "OPTIONS")

	s.router.HandleFunc("/api/v1/kamea/cell", s.corsMiddleware(s.handleKameaCell)).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/v1/kamea/locator", s.corsMiddleware(s.handleKameaLocator)).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/v1/kamea/quadset", s.corsMiddleware(s.handleKameaQuadset)).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/v1/kamea/octaset", s.corsMiddleware(s.handleKameaOctaset)).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/v1/kamea/search", s.corsMiddleware(s.handleKameaSearch)).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/v1/kamea/aspects", s.corsMiddleware(s.handleKameaAspects)).Methods("GET", "OPTIONS")

	s.router.HandleFunc("/api/v1/figurate/generate", s.corsMiddleware(s.handleFigurateGenerate)).Methods("POST", "OPTIONS")
}

// corsMiddleware adds permissive CORS headers and answers preflight
// requests directly.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// --- ternary -----------------------------------------------------------

// TernaryConvertRequest names the source and target representation of a
// conversion. From/To are one of "decimal", "standard", "balanced".
type TernaryConvertRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Value      string `json:"value"`
	PadLength  int    `json:"pad_length,omitempty"`
	GroupSize  int    `json:"group_size,omitempty"`
	Separator  string `json:"separator,omitempty"`
}

type TernaryConvertResponse struct {
	Value string `json:"value"`
}

func (s *Server) handleTernaryConvert(w http.ResponseWriter, r *http.Request) {
	var req TernaryConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	var decimal int
	var err error

	switch req.From {
	case "decimal":
		_, err = fmt.Sscanf(req.Value, "%d", &decimal)
	case "standard":
		decimal, err = ternary.FromStandard(req.Value)
	case "balanced":
		decimal, err = ternary.FromBalanced(req.Value)
	default:
		s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "from must be decimal, standard, or balanced"))
		return
	}
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	var out string
	switch req.To {
	case "decimal":
		out = fmt.Sprintf("%d", decimal)
	case "standard":
		out = ternary.ToStandard(decimal, req.PadLength, req.GroupSize, req.Separator)
	case "balanced":
		out = ternary.ToBalanced(decimal)
	default:
		s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "to must be decimal, standard, or balanced"))
		return
	}

	s.sendJSON(w, http.StatusOK, TernaryConvertResponse{Value: out})
}

// --- transition ----------------------------------------------------------

type TransitionApplyRequest struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Rule   string `json:"rule,omitempty"`
}

type TransitionApplyResponse struct {
	Result string `json:"result"`
}

func (s *Server) handleTransitionApply(w http.ResponseWriter, r *http.Request) {
	var req TransitionApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	m, err := transitionMapFor(req.Rule)
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	result, err := m.Apply(req.First, req.Second)
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, TransitionApplyResponse{Result: result})
}

type TransitionConruneRequest struct {
	Input string `json:"input"`
}

type TransitionConruneResponse struct {
	Result string `json:"result"`
}

func (s *Server) handleTransitionConrune(w http.ResponseWriter, r *http.Request) {
	var req TransitionConruneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	result, err := transition.ApplyConrune(req.Input)
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, TransitionConruneResponse{Result: result})
}

type TransitionIterateRequest struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Steps  int    `json:"steps"`
	Rule   string `json:"rule,omitempty"`
}

func (s *Server) handleTransitionIterate(w http.ResponseWriter, r *http.Request) {
	var req TransitionIterateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	m, err := transitionMapFor(req.Rule)
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	sequence, err := m.ApplyMultiple(req.First, req.Second, req.Steps)
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	cycle, cycleErr := m.FindCycle(req.First, req.Second, req.Steps)

	response := map[string]interface{}{"sequence": sequence}
	if cycleErr == nil {
		response["cycle"] = cycle
	}
	s.sendJSON(w, http.StatusOK, response)
}

func transitionMapFor(rule string) (*transition.Map, error) {
	if rule == "" {
		return transition.DefaultMap(), nil
	}
	return transition.ParseRule(rule)
}

// --- kamea -----------------------------------------------------------------

func (s *Server) handleKameaCell(w http.ResponseWriter, r *http.Request) {
	x, y, ok := s.parseXY(w, r)
	if !ok {
		return
	}

	cell, err := s.grid.At(x, y)
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, cell)
}

func (s *Server) handleKameaLocator(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if locator := q.Get("locator"); locator != "" {
		ditrune, err := kamea.LocatorToDitrune(locator)
		if err != nil {
			s.sendAppError(w, err)
			return
		}
		s.sendJSON(w, http.StatusOK, map[string]string{"ditrune": ditrune})
		return
	}

	ditrune := q.Get("ditrune")
	if ditrune == "" {
		s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "ditrune or locator query parameter is required"))
		return
	}

	bigrams, err := kamea.DecomposeBigrams(ditrune)
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, bigrams)
}

func (s *Server) handleKameaQuadset(w http.ResponseWriter, r *http.Request) {
	x, y, ok := s.parseXY(w, r)
	if !ok {
		return
	}
	s.sendJSON(w, http.StatusOK, kamea.Quadset(x, y))
}

func (s *Server) handleKameaOctaset(w http.ResponseWriter, r *http.Request) {
	x, y, ok := s.parseXY(w, r)
	if !ok {
		return
	}
	s.sendJSON(w, http.StatusOK, kamea.Octaset(x, y))
}

func (s *Server) handleKameaSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if decStr := q.Get("decimal"); decStr != "" {
		var decimal int
		if _, err := fmt.Sscanf(decStr, "%d", &decimal); err != nil {
			s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "decimal must be an integer"))
			return
		}
		s.sendJSON(w, http.StatusOK, s.grid.FindByDecimal(decimal))
		return
	}

	if substr := q.Get("substring"); substr != "" {
		s.sendJSON(w, http.StatusOK, s.grid.FindByTernarySubstring(substr))
		return
	}

	if sumStr := q.Get("quadsum"); sumStr != "" {
		var sum int
		if _, err := fmt.Sscanf(sumStr, "%d", &sum); err != nil {
			s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "quadsum must be an integer"))
			return
		}
		s.sendJSON(w, http.StatusOK, s.grid.FindByQuadSum(sum))
		return
	}

	s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "one of decimal, substring, or quadsum is required"))
}

func (s *Server) handleKameaAspects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "start must be RFC3339"))
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "end must be RFC3339"))
		return
	}

	rows, err := s.aspect.Query(r.Context(), store.Query{
		Start: start,
		End:   end,
		Body1: q.Get("body1"),
		Body2: q.Get("body2"),
		Kind:  q.Get("kind"),
	})
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, rows)
}

func (s *Server) parseXY(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	q := r.URL.Query()
	var x, y int
	if _, err := fmt.Sscanf(q.Get("x"), "%d", &x); err != nil {
		s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "x must be an integer"))
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(q.Get("y"), "%d", &y); err != nil {
		s.sendAppError(w, apperrors.New(apperrors.InvalidParameters, "y must be an integer"))
		return 0, 0, false
	}
	return x, y, true
}

// --- figurate ----------------------------------------------------------

type FigurateGenerateRequest struct {
	Sides    int  `json:"sides"`
	Index    int  `json:"index"`
	Centered bool `json:"centered"`
	Star     bool `json:"star"`
}

func (s *Server) handleFigurateGenerate(w http.ResponseWriter, r *http.Request) {
	var req FigurateGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	dots, err := figurate.Generate(req.Sides, req.Index, req.Centered, req.Star)
	if err != nil {
		s.sendAppError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"dots":  dots,
		"count": len(dots),
	})
}

// --- health and shared helpers ------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "healthy",
		"time":    time.Now().Unix(),
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) sendError(w http.ResponseWriter, statusCode int, code, message, details string) {
	s.sendJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
		"code":    code,
		"details": details,
	})
}

// sendAppError maps an apperrors.Error to an HTTP status and sends it;
// any other error is reported as an internal error.
func (s *Server) sendAppError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*apperrors.Error)
	if !ok {
		s.sendError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), "")
		return
	}

	status := http.StatusBadRequest
	switch appErr.Kind {
	case apperrors.OutOfBounds, apperrors.GroupIndexOutOfRange:
		status = http.StatusNotFound
	case apperrors.TransactionFailed:
		status = http.StatusInternalServerError
	}

	s.sendError(w, status, string(appErr.Kind), appErr.Message, "")
}

// Start runs the HTTP server on s.port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("starting isopgem API server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Shutdown is a no-op placeholder for symmetry with a future
// *http.Server-backed implementation; Start currently blocks on
// http.ListenAndServe rather than an owned server instance.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("shutting down API server")
	return nil
}
