// Package chat runs one question through the answer pipeline and keeps
// the resulting exchange on a session.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docqa/internal/answer"
	"github.com/dgallion1/docqa/internal/docstore"
	"github.com/dgallion1/docqa/internal/lang"
	"github.com/dgallion1/docqa/internal/metrics"
	"github.com/dgallion1/docqa/internal/models"
	"github.com/dgallion1/docqa/internal/websearch"
)

// MsgUnavailable is the reply when a model capability fails.
const MsgUnavailable = "The assistant is temporarily unavailable. Please try again later."

var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrQuestionTooLong = errors.New("question is too long")
	ErrUnknownSession  = errors.New("unknown session")
)

// Outcome says which path produced the reply.
type Outcome string

const (
	OutcomeAccepted    Outcome = "accepted"
	OutcomeFallback    Outcome = "fallback"
	OutcomeUnavailable Outcome = "unavailable"
)

// Upload is a document attached to a single request.
type Upload struct {
	Filename string
	Data     []byte
}

// Request is one user question. An empty SessionID starts a new session.
type Request struct {
	SessionID string
	Query     string
	Upload    *Upload
}

// Exchange is the result of one request.
type Exchange struct {
	SessionID   string
	Log         []Turn
	Language    lang.Tag
	Outcome     Outcome
	Reply       string
	Score       float64
	Suggestions []string
}

// Orchestrator answers questions against a default document or a
// per-request upload.
type Orchestrator struct {
	defaultDoc docstore.Document
	docs       *docstore.Store
	extractor  *answer.Extractor
	fetcher    *websearch.Fetcher
	sessions   *SessionStore
	maxQuery   int
	log        *slog.Logger
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	DefaultDocument   docstore.Document
	Documents         *docstore.Store
	Extractor         *answer.Extractor
	Fetcher           *websearch.Fetcher
	Sessions          *SessionStore
	MaxQuestionLength int
}

func NewOrchestrator(deps Deps, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		defaultDoc: deps.DefaultDocument,
		docs:       deps.Documents,
		extractor:  deps.Extractor,
		fetcher:    deps.Fetcher,
		sessions:   deps.Sessions,
		maxQuery:   deps.MaxQuestionLength,
		log:        log.With("component", "chat"),
	}
}

// DefaultDocument returns the document used when no upload is attached.
func (o *Orchestrator) DefaultDocument() docstore.Document {
	return o.defaultDoc
}

// NewSession starts an empty session.
func (o *Orchestrator) NewSession() *Session {
	return o.sessions.Create()
}

// Session looks up a live session.
func (o *Orchestrator) Session(id string) (*Session, error) {
	sess := o.sessions.Get(id)
	if sess == nil {
		return nil, ErrUnknownSession
	}
	return sess, nil
}

// Handle answers req and replaces the session's exchange with
// [user query, bot reply]. Only invalid input is returned as an error;
// model and search failures become replies.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (Exchange, error) {
	if strings.TrimSpace(req.Query) == "" {
		return Exchange{}, ErrEmptyQuestion
	}
	if o.maxQuery > 0 && utf8.RuneCountInString(req.Query) > o.maxQuery {
		return Exchange{}, fmt.Errorf("%w: %d characters allowed", ErrQuestionTooLong, o.maxQuery)
	}

	var sess *Session
	if req.SessionID == "" {
		sess = o.sessions.Create()
	} else if sess = o.sessions.Get(req.SessionID); sess == nil {
		return Exchange{}, ErrUnknownSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()
	sess.log = nil

	doc := o.defaultDoc
	var suggestions []string
	if req.Upload != nil {
		doc = o.docs.LoadBytes(req.Upload.Data, req.Upload.Filename)
		metrics.ObserveDocument(doc.Empty())
		suggestions = doc.Suggestions()
	}

	ex := Exchange{
		SessionID:   sess.ID,
		Language:    lang.Classify(req.Query),
		Suggestions: suggestions,
	}
	log := o.log.With("session_id", sess.ID, "language", ex.Language, "source", doc.Source)

	res, err := o.extractor.Extract(ctx, req.Query, doc.Text)
	switch {
	case err != nil:
		o.logUpstreamFailure(log, err)
		ex.Outcome = OutcomeUnavailable
		ex.Reply = MsgUnavailable
	case res.Accepted:
		ex.Outcome = OutcomeAccepted
		ex.Score = res.Score
		ex.Reply = FormatAnswer(res)
	default:
		ex.Outcome = OutcomeFallback
		ex.Score = res.Score
		ex.Reply = o.fetcher.Fetch(ctx, req.Query)
	}

	sess.log = []Turn{
		{Role: RoleUser, Text: req.Query},
		{Role: RoleBot, Text: ex.Reply},
	}
	ex.Log = []Turn{sess.log[0], sess.log[1]}

	metrics.ObserveQuestion(string(ex.Outcome), string(ex.Language))
	log.Info("question answered", "outcome", ex.Outcome, "score", ex.Score)
	return ex, nil
}

func (o *Orchestrator) logUpstreamFailure(log *slog.Logger, err error) {
	var ue *models.UnavailableError
	if errors.As(err, &ue) {
		log.Warn("model unavailable",
			"model", ue.Model,
			"status", ue.StatusCode,
			"estimated_time", ue.EstimatedTime.String(),
			"error", err,
		)
		return
	}
	log.Error("answer pipeline failed", "error", err)
}

// FormatAnswer renders an accepted result as the bot reply.
func FormatAnswer(res answer.Result) string {
	var b strings.Builder
	b.WriteString("**Answer:** ")
	b.WriteString(res.Answer)
	if len(res.Related) > 0 {
		b.WriteString("\n\n**Related facts:**")
		for _, s := range res.Related {
			b.WriteString("\n• ")
			b.WriteString(s)
			b.WriteString(".")
		}
	}
	return b.String()
}
