package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kokorolab/exposure-chat/exposure"
)

const sessionTokenHeader = "X-Session-Token"

// Handler serves the study's JSON API: login, per-role message turns,
// history, plan inspection, and log download.
type Handler struct {
	runner   *exposure.Runner
	sessions *SessionManager
	passcode string
	logger   *zap.Logger
}

func NewHandler(runner *exposure.Runner, sessions *SessionManager, passcode string, logger *zap.Logger) *Handler {
	return &Handler{
		runner:   runner,
		sessions: sessions,
		passcode: passcode,
		logger:   logger,
	}
}

func respondError(c *gin.Context, status int, code string, err error) {
	body := gin.H{"error": code}
	if err != nil {
		body["detail"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// Login checks the shared passcode and opens a session for one participant
// and day. Authentication failures are recoverable: nothing is mutated, the
// client just re-prompts.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		ParticipantID string `json:"participant_id"`
		Day           int    `json:"day"`
		Passcode      string `json:"passcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	id := strings.TrimSpace(req.ParticipantID)
	if id == "" {
		respondError(c, http.StatusBadRequest, "participant_id_required", nil)
		return
	}
	if !h.runner.Program.ValidDay(req.Day) {
		respondError(c, http.StatusBadRequest, "invalid_day", nil)
		return
	}
	if req.Passcode != h.passcode {
		respondError(c, http.StatusUnauthorized, "invalid_passcode", nil)
		return
	}

	token := h.sessions.Create(id, req.Day)
	h.logger.Info("session opened",
		zap.String("participant_id", id),
		zap.Int("day", req.Day),
	)
	c.JSON(http.StatusOK, gin.H{
		"token":          token,
		"participant_id": id,
		"day":            req.Day,
		"level":          h.runner.Program.LevelForDay(req.Day),
	})
}

// sessionRequired resolves the session token header and stashes the managed
// session on the request context.
func (h *Handler) sessionRequired(c *gin.Context) {
	token := c.GetHeader(sessionTokenHeader)
	if token == "" {
		respondError(c, http.StatusUnauthorized, "missing_session_token", nil)
		return
	}
	ms, ok := h.sessions.Get(token)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unknown_session", nil)
		return
	}
	c.Set("session", ms)
	c.Next()
}

func sessionFrom(c *gin.Context) *managedSession {
	return c.MustGet("session").(*managedSession)
}

func parseAgent(s string) (exposure.Agent, bool) {
	a := exposure.Agent(strings.TrimSpace(s))
	return a, a.Valid()
}

// Message runs one user turn against the chosen agent.
func (h *Handler) Message(c *gin.Context) {
	var req struct {
		Agent string `json:"agent"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	agent, ok := parseAgent(req.Agent)
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown_agent", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(c, http.StatusBadRequest, "empty_message", nil)
		return
	}

	ms := sessionFrom(c)
	ms.mu.Lock()
	res, err := h.runner.Turn(c.Request.Context(), ms.sess, agent, req.Text)
	ms.mu.Unlock()
	if err != nil {
		// The turn is aborted; session state and the log keep the user
		// message, and the participant retries by resending.
		h.logger.Warn("turn failed",
			zap.String("participant_id", ms.sess.ParticipantID),
			zap.String("agent", string(agent)),
			zap.Error(err),
		)
		respondError(c, http.StatusBadGateway, "completion_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":       res.Reply.Text,
		"emotion":    res.Reply.Emotion,
		"plan":       res.Reply.Plan,
		"plan_saved": res.PlanSaved,
	})
}

// History returns the session's message history for one agent.
func (h *Handler) History(c *gin.Context) {
	agent, ok := parseAgent(c.Query("agent"))
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown_agent", nil)
		return
	}
	ms := sessionFrom(c)
	ms.mu.Lock()
	history := append([]exposure.Message(nil), ms.sess.History(agent)...)
	ms.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"messages": history})
}

// Plan returns the participant's stored plan, or null when none exists yet.
func (h *Handler) Plan(c *gin.Context) {
	ms := sessionFrom(c)
	ms.mu.Lock()
	plan, err := h.runner.StoredPlan(ms.sess)
	ms.mu.Unlock()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "plan_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// Prompt exposes the system prompt the therapist role would receive on the
// session's day, for researcher inspection.
func (h *Handler) Prompt(c *gin.Context) {
	agent, ok := parseAgent(c.Query("agent"))
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown_agent", nil)
		return
	}
	ms := sessionFrom(c)
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var prompt string
	if agent == exposure.AgentTherapist {
		prompt = h.runner.Program.TherapistPrompt(ms.sess.Day)
	} else {
		plan, err := h.runner.StoredPlan(ms.sess)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "plan_load_failed", err)
			return
		}
		prompt = h.runner.Program.PeerPrompt(plan, ms.sess.Day)
	}
	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// DownloadLog streams the full conversation CSV.
func (h *Handler) DownloadLog(c *gin.Context) {
	c.FileAttachment(h.runner.Log.Path(), "chat_logs.csv")
}

// Logout drops the session. Idempotent.
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetHeader(sessionTokenHeader)
	if token != "" {
		h.sessions.Delete(token)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
