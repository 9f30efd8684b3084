package trigger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/rickgao/stockstats/internal/pipeline"
)

// Event is the decoded trigger payload.
type Event struct {
	Data string `json:"data"`
}

// MessagePublishedData is the Pub/Sub CloudEvent payload.
type MessagePublishedData struct {
	Message      PubSubMessage `json:"message"`
	Subscription string        `json:"subscription"`
}

// PubSubMessage is a Pub/Sub message. Data arrives base64 encoded.
type PubSubMessage struct {
	Data       []byte            `json:"data"`
	Attributes map[string]string `json:"attributes,omitempty"`
	MessageID  string            `json:"messageId"`
}

// Runner executes one pipeline pass.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Handler runs the pipeline when an event carries the sentinel command.
type Handler struct {
	command string
	runner  Runner
	logger  *slog.Logger
}

// NewHandler creates a Handler for the sentinel command.
func NewHandler(command string, runner Runner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		command: command,
		runner:  runner,
		logger:  logger,
	}
}

// Handle runs the pipeline for the sentinel command and is a logged no-op
// for anything else.
func (h *Handler) Handle(ctx context.Context, ev Event) error {
	if ev.Data != h.command {
		h.logger.Info("no action requested", "command", ev.Data)
		if s, ok := h.runner.(interface{ Skip() }); ok {
			s.Skip()
		}
		return nil
	}

	res, err := h.runner.Run(ctx)
	if err != nil {
		h.logger.Error("invocation failed", "error", err)
		return err
	}

	h.logger.Info("invocation complete",
		"run_id", res.RunID.String(),
		"fetched", res.Fetched,
		"loaded", res.Loaded,
	)
	return nil
}

// HandleCloudEvent decodes a Pub/Sub CloudEvent and passes its message data to Handle.
func (h *Handler) HandleCloudEvent(ctx context.Context, e event.Event) error {
	var msg MessagePublishedData
	if err := e.DataAs(&msg); err != nil {
		return fmt.Errorf("decode pubsub message: %w", err)
	}

	h.logger.Debug("event received",
		"event_id", e.ID(),
		"message_id", msg.Message.MessageID,
		"subscription", msg.Subscription,
	)
	return h.Handle(ctx, Event{Data: string(msg.Message.Data)})
}
