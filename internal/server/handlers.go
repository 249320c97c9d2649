package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"targetrange/internal/broadcast"
	"targetrange/internal/db"
	"targetrange/internal/events"
	"targetrange/internal/metrics"
	"targetrange/internal/sessions"
	"targetrange/internal/targets"
	"targetrange/internal/wshub"
)

const maxBodyBytes = 1 << 12

type Server struct {
	Sessions *sessions.Store
	Metrics  *metrics.Collectors
	DB       *db.DB         // nil if no database configured
	Records  chan db.Record // nil if no database configured
}

type sessionResponse struct {
	Code       string `json:"code"`
	ID         string `json:"id"`
	PlayerName string `json:"name"`
	Targets    int    `json:"targets"`
}

func newSessionResponse(sess *sessions.Session) sessionResponse {
	return sessionResponse{
		Code:       sess.Code,
		ID:         sess.ID,
		PlayerName: sess.PlayerName,
		Targets:    sess.TargetsTotal,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] Encode error: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, wshub.ServerMessage{Type: wshub.TypeError, Error: msg})
}

// getSession resolves the session named in the path, writing a 404 if it is gone.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) *sessions.Session {
	sess := s.Sessions.Get(r.PathValue("code"))
	if sess == nil {
		writeError(w, http.StatusNotFound, sessions.ErrNotFound.Error())
		return nil
	}
	return sess
}

// sessionError maps session errors onto HTTP statuses.
func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessions.ErrBadDirection), errors.Is(err, sessions.ErrBadOrigin):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sessions.ErrClosed):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeError(w, http.StatusServiceUnavailable, err.Error())
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form")
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = "anonymous"
	}

	sess, err := s.Sessions.Create(name)
	if err != nil {
		log.Println(err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	if s.DB != nil {
		// subscribe before the code is handed out so no shot is missed
		ch := sess.Broadcaster.Subscribe()
		if err := s.DB.CreateSession(sess.ID, sess.Code, sess.PlayerName, sess.TargetsTotal); err != nil {
			log.Printf("[DB] CreateSession error: %v\n", err)
			sess.Broadcaster.Unsubscribe(ch)
		} else {
			go s.record(sess, ch)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_code",
		Value:    sess.Code,
		Path:     "/",
		HttpOnly: true,
	})

	log.Printf("[Session] Created %s for %s\n", sess.Code, sess.PlayerName)
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list := s.Sessions.List()
	out := make([]sessionResponse, 0, len(list))
	for _, sess := range list {
		out = append(out, newSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	frame, err := sess.Snapshot(r.Context())
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wshub.FrameMessage(frame))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.Sessions.Delete(r.PathValue("code")) {
		writeError(w, http.StatusNotFound, sessions.ErrNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeRay reads a {"o":[x,y,z],"d":[x,y,z]} body.
func decodeRay(w http.ResponseWriter, r *http.Request) (wshub.ClientMessage, bool) {
	var msg wshub.ClientMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return msg, false
	}
	if _, _, err := msg.Ray(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return msg, false
	}
	return msg, true
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	msg, ok := decodeRay(w, r)
	if !ok {
		return
	}
	origin, direction, _ := msg.Ray()

	id, err := sess.Fire(r.Context(), origin, direction)
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wshub.ServerMessage{Type: wshub.TypeShot, ProjectileID: uint64(id)})
}

func (s *Server) handleShoot(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	msg, ok := decodeRay(w, r)
	if !ok {
		return
	}
	origin, direction, _ := msg.Ray()

	res, err := sess.Shoot(r.Context(), origin, direction)
	if err != nil {
		sessionError(w, err)
		return
	}
	out := shotMessage(res)
	if res.Result == targets.Hit {
		sess.Hub.Broadcast(out)
	}
	writeJSON(w, http.StatusOK, out)
}

func shotMessage(res sessions.ShotResult) wshub.ServerMessage {
	msg := wshub.ServerMessage{
		Type:         wshub.TypeShot,
		ProjectileID: uint64(res.ProjectileID),
		TargetID:     int(res.TargetID),
		Result:       res.Result.String(),
		Score:        res.Score,
	}
	if res.Result == targets.Hit {
		msg.Type = wshub.TypeHit
	}
	return msg
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target ID")
		return
	}

	res, score, err := sess.Pick(r.Context(), targets.ID(id))
	if err != nil {
		sessionError(w, err)
		return
	}
	out := wshub.ServerMessage{Type: wshub.TypeHit, TargetID: id, Result: res.String(), Score: score}
	if res == targets.Hit {
		sess.Hub.Broadcast(out)
	}
	// a miss is a normal outcome, not an error
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(msgChan)

	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sess.Done():
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg.Data)
			if err != nil {
				log.Printf("[Server] SSE marshal error: %v\n", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":   "ok",
		"sessions": len(s.Sessions.List()),
	}
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status["status"] = "db_error"
			status["error"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
	}
	writeJSON(w, http.StatusOK, status)
}

// record copies a session's shots and hits from ch into the batch writer
// until the session closes ch.
func (s *Server) record(sess *sessions.Session, ch <-chan broadcast.Message) {
	for msg := range ch {
		var rec db.Record
		switch ev := msg.Data.(type) {
		case events.ShotEvent:
			rec.Shot = &db.ShotRecord{
				SessionID:    sess.ID,
				ProjectileID: uint64(ev.ProjectileID),
				Origin:       [3]float64(ev.Origin),
				Direction:    [3]float64(ev.Direction),
				FiredAt:      ev.At,
			}
		case events.HitEvent:
			rec.Hit = &db.HitRecord{
				SessionID:  sess.ID,
				TargetID:   int(ev.TargetID),
				ScoreAfter: ev.Score,
				HitAt:      ev.At,
			}
		default:
			continue
		}
		select {
		case s.Records <- rec:
		default:
			log.Println("[DB] Record buffer full, dropping event")
		}
	}
}

func (s *Server) endSession(sess *sessions.Session, finalScore int) {
	if s.DB == nil {
		return
	}
	if err := s.DB.EndSession(sess.ID, finalScore); err != nil {
		log.Printf("[DB] EndSession error: %v\n", err)
	}
}
