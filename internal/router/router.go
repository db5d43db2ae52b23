// Package router coordinates one full dialogue turn: load session state,
// classify risk and intent, run the policy cascade, persist the new state,
// and record the turn in the audit log. Both the HTTP surface and the CLI
// drive it through ProcessMessage.
package router

// #region imports
import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/pulseai/pulsebot/internal/auditlog"
	"github.com/pulseai/pulsebot/internal/intent"
	"github.com/pulseai/pulsebot/internal/policy"
	"github.com/pulseai/pulsebot/internal/risk"
	"github.com/pulseai/pulsebot/internal/session"
)

// #endregion

// #region turn

// Turn is the complete record of one processed message.
type Turn struct {
	TurnID  string
	Reply   policy.Reply
	Rule    policy.Rule
	Risk    risk.Tier
	Intent  intent.Intent
	Session session.Session
}

// #endregion

// #region router

// Router is the stateful dialogue coordinator. drift and auditDB are
// optional; everything else is required.
type Router struct {
	store   session.Store
	riskC   *risk.Classifier
	intentC *intent.Classifier
	drift   *intent.DriftDetector
	engine  *policy.Engine
	auditDB *sql.DB
}

// New wires a router from its parts.
func New(store session.Store, riskC *risk.Classifier, intentC *intent.Classifier,
	drift *intent.DriftDetector, engine *policy.Engine, auditDB *sql.DB) *Router {
	return &Router{
		store:   store,
		riskC:   riskC,
		intentC: intentC,
		drift:   drift,
		engine:  engine,
		auditDB: auditDB,
	}
}

// #endregion

// #region process-message

// ProcessMessage runs one turn for the given session. An empty sessionID
// maps to the shared default session. Classification is skipped entirely
// for whitespace-only messages; the policy handles those on its own.
func (r *Router) ProcessMessage(ctx context.Context, sessionID, message string) (Turn, error) {
	sess, err := r.store.Load(ctx, sessionID)
	if err != nil {
		return Turn{}, fmt.Errorf("load session: %w", err)
	}

	text := strings.TrimSpace(message)
	tier := risk.TierLow
	in := intent.IntentNewTopic
	if text != "" {
		tier = r.riskC.Classify(text)
	}
	// A high tier escalates regardless of intent, so the model-backed
	// classifiers are skipped entirely; the escalation turn must never wait
	// on backend round-trips.
	if text != "" && tier != risk.TierHigh {
		in = r.intentC.Classify(ctx, text)
		if r.drift != nil {
			in = r.drift.Refine(ctx, in, text, sess.LastTopic)
		}
	}

	out := r.engine.Decide(ctx, sess, message, in, tier)

	if err := r.store.Save(ctx, out.Session); err != nil {
		return Turn{}, fmt.Errorf("save session: %w", err)
	}

	turn := Turn{
		Reply:   out.Reply,
		Rule:    out.Rule,
		Risk:    tier,
		Intent:  in,
		Session: out.Session,
	}
	turn.TurnID = r.audit(ctx, out.Session.ID, text, turn)
	return turn, nil
}

// audit records the turn; failures are logged, never surfaced, so a broken
// audit database cannot take the conversation down.
func (r *Router) audit(ctx context.Context, sessionID, message string, turn Turn) string {
	if r.auditDB == nil {
		return ""
	}
	id, err := auditlog.LogTurn(ctx, r.auditDB, auditlog.TurnEntry{
		SessionID: sessionID,
		Message:   message,
		RiskTier:  string(turn.Risk),
		Intent:    string(turn.Intent),
		Rule:      string(turn.Rule),
		ReplyKind: string(turn.Reply.Kind),
	})
	if err != nil {
		log.Printf("[AUDIT] turn log failed for session %s: %v", sessionID, err)
		return ""
	}
	return id
}

// #endregion
