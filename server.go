package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bodul/crossword-builder/puzzle"
)

const (
	maxUploadSize      = 10 << 20 // 10 Mo
	defaultMaxGridSize = 25
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > 5*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	// Refill tokens based on elapsed time.
	if refill := int(time.Since(b.lastSeen) / rl.interval); refill > 0 {
		b.tokens = min(b.tokens+refill*rl.rate, rl.rate)
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the main HTTP server.
type Server struct {
	mux         *http.ServeMux
	store       *Store
	gemini      *GeminiClient
	sse         *Broadcaster
	importRL    *rateLimiter
	editRL      *rateLimiter
	maxGridSize int
}

// NewServer creates a configured HTTP server.
func NewServer(store *Store, gemini *GeminiClient) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		store:       store,
		gemini:      gemini,
		sse:         NewBroadcaster(),
		importRL:    newRateLimiter(5, time.Minute), // 5 imports/min per IP
		editRL:      newRateLimiter(60, time.Second), // 60 edits/sec per IP
		maxGridSize: defaultMaxGridSize,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreatePuzzle)
	s.mux.HandleFunc("POST /api/puzzles/import", s.handleImportPuzzle)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)
	s.mux.HandleFunc("DELETE /api/puzzles/{id}", s.handleDeletePuzzle)
	s.mux.HandleFunc("GET /api/puzzles/{id}/document", s.handleGetDocument)
	s.mux.HandleFunc("GET /api/puzzles/{id}/check", s.handleCheck)
	s.mux.HandleFunc("GET /api/puzzles/{id}/navigate", s.handleNavigate)
	s.mux.HandleFunc("GET /api/puzzles/{id}/events", s.handlePuzzleEvents)

	// Edits
	s.mux.HandleFunc("POST /api/puzzles/{id}/clear", s.handleClear)
	s.mux.HandleFunc("POST /api/puzzles/{id}/squares/{index}/select", s.handleSelect)
	s.mux.HandleFunc("POST /api/puzzles/{id}/squares/{index}/type", s.handleToggleType)
	s.mux.HandleFunc("POST /api/puzzles/{id}/squares/{index}/overlay", s.handleToggleOverlay)
	s.mux.HandleFunc("PUT /api/puzzles/{id}/squares/{index}/value", s.handleSetValue)
	s.mux.HandleFunc("PUT /api/puzzles/{id}/clues/{direction}/{num}", s.handleSetClueText)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Puzzle handlers ---

// POST /api/puzzles — create a puzzle from a document, or a blank grid when
// only width and height are given.
func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	var doc puzzle.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	s.createPuzzle(w, doc)
}

// POST /api/puzzles/import — upload a photo, analyze it with Gemini, build
// the puzzle.
func (s *Server) handleImportPuzzle(w http.ResponseWriter, r *http.Request) {
	if !s.importRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	if s.gemini == nil {
		jsonError(w, "Analyse d'image non configurée", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, "Image trop volumineuse (max 10 Mo)", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, "Champ 'image' requis", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !allowedMIME[mimeType] {
		jsonError(w, "Format accepté : JPEG ou PNG", http.StatusBadRequest)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "Erreur de lecture de l'image", http.StatusInternalServerError)
		return
	}

	doc, err := s.gemini.AnalyzeImage(r.Context(), imageData, mimeType)
	if err != nil {
		log.Printf("Gemini analyze error: %v", err)
		jsonError(w, "Erreur lors de l'analyse de la grille", http.StatusInternalServerError)
		return
	}

	s.createPuzzle(w, *doc)
}

func (s *Server) createPuzzle(w http.ResponseWriter, doc puzzle.Document) {
	if doc.Width > s.maxGridSize || doc.Height > s.maxGridSize {
		jsonError(w, "Grille trop grande (max "+strconv.Itoa(s.maxGridSize)+" cases de côté)", http.StatusBadRequest)
		return
	}
	if doc.Answers == nil {
		doc.Answers = make([]string, max(doc.Width*doc.Height, 0))
	}

	p, err := puzzle.Build(doc)
	if err != nil {
		log.Printf("build puzzle %dx%d: %v", doc.Width, doc.Height, err)
		engineError(w, err)
		return
	}

	sess := s.store.Save(p)
	writeJSON(w, http.StatusCreated, sess)
}

// GET /api/puzzles — list all puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	sessions := s.store.List()
	list := make([]Summary, len(sessions))
	for i, sess := range sessions {
		list[i] = sess.Summary()
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/puzzles/{id} — full puzzle state.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DELETE /api/puzzles/{id}
func (s *Server) handleDeletePuzzle(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(r.PathValue("id")) {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/puzzles/{id}/document — persisted form.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Document())
}

// GET /api/puzzles/{id}/check — symmetry, connectivity, duplicates.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Check())
}

// GET /api/puzzles/{id}/navigate?from=&dir=next|prev&vertical=&skip=
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	q := r.URL.Query()
	from, err := strconv.Atoi(q.Get("from"))
	if err != nil {
		jsonError(w, "Paramètre 'from' invalide", http.StatusBadRequest)
		return
	}
	var prev bool
	switch q.Get("dir") {
	case "", "next":
	case "prev":
		prev = true
	default:
		jsonError(w, "Paramètre 'dir' invalide : next ou prev", http.StatusBadRequest)
		return
	}
	vertical, _ := strconv.ParseBool(q.Get("vertical"))
	skip, _ := strconv.ParseBool(q.Get("skip"))

	index, err := sess.Navigate(from, prev, vertical, skip)
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"index": index})
}

// GET /api/puzzles/{id}/events — SSE stream.
func (s *Server) handlePuzzleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	s.sse.ServeSSE(w, r, sess.ID, func(c *client) {
		// Send the full state on connect.
		evt, err := json.Marshal(map[string]any{
			"type":   "puzzle_state",
			"puzzle": sess,
		})
		if err != nil {
			log.Printf("encode puzzle %s: %v", sess.ID, err)
			return
		}
		c.ch <- string(evt)
	})
}

// --- Edit handlers ---

// POST /api/puzzles/{id}/clear
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, func(p *puzzle.Puzzle) (puzzle.Change, error) {
		return p.Clear(), nil
	})
}

// POST /api/puzzles/{id}/squares/{index}/select
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}
	sel, err := sess.Select(index)
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// POST /api/puzzles/{id}/squares/{index}/type — toggle letter/spacer.
func (s *Server) handleToggleType(w http.ResponseWriter, r *http.Request) {
	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}
	s.edit(w, r, func(p *puzzle.Puzzle) (puzzle.Change, error) {
		return p.ToggleType(index)
	})
}

// POST /api/puzzles/{id}/squares/{index}/overlay — {"overlay":"circle"}.
func (s *Server) handleToggleOverlay(w http.ResponseWriter, r *http.Request) {
	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}
	var req struct {
		Overlay string `json:"overlay"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Champ 'overlay' requis", http.StatusBadRequest)
		return
	}
	overlay, err := puzzle.ParseOverlay(req.Overlay)
	if err != nil {
		engineError(w, err)
		return
	}
	s.edit(w, r, func(p *puzzle.Puzzle) (puzzle.Change, error) {
		return p.ToggleOverlay(index, overlay)
	})
}

// PUT /api/puzzles/{id}/squares/{index}/value — {"value":"A"}, "" erases.
func (s *Server) handleSetValue(w http.ResponseWriter, r *http.Request) {
	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	s.edit(w, r, func(p *puzzle.Puzzle) (puzzle.Change, error) {
		return p.SetValue(index, req.Value)
	})
}

// PUT /api/puzzles/{id}/clues/{direction}/{num} — {"text":"..."}.
func (s *Server) handleSetClueText(w http.ResponseWriter, r *http.Request) {
	dir, err := puzzle.ParseDirection(r.PathValue("direction"))
	if err != nil {
		engineError(w, err)
		return
	}
	num, ok := pathInt(w, r, "num")
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Champ 'text' requis", http.StatusBadRequest)
		return
	}
	s.edit(w, r, func(p *puzzle.Puzzle) (puzzle.Change, error) {
		return p.SetClueText(dir, num, req.Text)
	})
}

// edit runs one mutation on the session named in the path, answers with the
// resulting change and broadcasts it to the puzzle's watchers.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, fn func(*puzzle.Puzzle) (puzzle.Change, error)) {
	if !s.editRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	sess := s.session(w, r)
	if sess == nil {
		return
	}

	// Publishing under the session lock keeps events in commit order.
	change, err := sess.Edit(fn, func(c puzzle.Change) {
		s.sse.Publish(sess.ID, map[string]any{
			"type":   "change",
			"change": c,
		})
	})
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, change)
}

// --- Helpers ---

func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	sess := s.store.Get(r.PathValue("id"))
	if sess == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
	}
	return sess
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		jsonError(w, "Paramètre '"+name+"' invalide", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// engineError maps puzzle errors to HTTP responses.
func engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, puzzle.ErrNoClue):
		jsonError(w, "Définition introuvable", http.StatusNotFound)
	case errors.Is(err, puzzle.ErrOutOfRange):
		jsonError(w, "Position hors limites", http.StatusBadRequest)
	case errors.Is(err, puzzle.ErrSpacer):
		jsonError(w, "Case noire", http.StatusBadRequest)
	case errors.Is(err, puzzle.ErrInvalidValue):
		jsonError(w, "Valeur invalide : une lettre ou vide", http.StatusBadRequest)
	case errors.Is(err, puzzle.ErrInvalidSize), errors.Is(err, puzzle.ErrShortAnswers):
		jsonError(w, "Grille invalide", http.StatusBadRequest)
	case errors.Is(err, puzzle.ErrUnknownDirection):
		jsonError(w, "Direction invalide : across ou down", http.StatusBadRequest)
	case errors.Is(err, puzzle.ErrUnknownOverlay):
		jsonError(w, "Marque invalide : circle, shade ou none", http.StatusBadRequest)
	default:
		log.Printf("engine error: %v", err)
		jsonError(w, "Erreur interne", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
