// Package story generates three-part children's origin stories by sequencing
// completion calls: one plan call, then one call per part. Each part after the
// first is told how the previous part ended, so the calls cannot run in parallel.
package story

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	// PartCount is the number of story parts written after the plan.
	PartCount = 3
	// TailLength is how many trailing characters of a part are quoted to the next.
	TailLength = 50

	// FailureMessage is the only error text a reader ever sees.
	FailureMessage = "Oeps! Er ging iets mis bij het maken van het verhaal. Probeer het nog een keer! 😊"

	StepPlanning = "Het verhaal plannen..."
	StepDone     = "Klaar! 🎉"
)

// ErrEmptyTopic is returned before any call is made when the topic is blank.
var ErrEmptyTopic = errors.New("topic is empty")

// ExampleTopics are suggested to readers who don't know what to ask for.
var ExampleTopics = []string{"pizza", "fiets", "chocolade", "boek", "muziek", "regenboog", "voetbal", "ijs"}

// StepWriting is the progress message shown while part n is written.
func StepWriting(n int) string {
	return fmt.Sprintf("Deel %d schrijven...", n)
}

// Completer sends one prompt and returns the completion text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Story is a finished three-part narrative.
type Story struct {
	Topic string
	Plan  Plan
	Parts []string
}

// Text joins the parts with blank lines.
func (s Story) Text() string {
	return strings.Join(s.Parts, "\n\n")
}

// Orchestrator runs the plan/part sequence against a Completer.
type Orchestrator struct {
	llm      Completer
	progress func(step string)
	log      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgress reports each step as it starts.
func WithProgress(fn func(step string)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithLogger sets the logger used for step and failure logging.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New returns an Orchestrator using c for every call.
func New(c Completer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		llm:      c,
		progress: func(string) {},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate writes a story about topic. Any failure aborts the whole sequence
// and no partial story is returned.
func (o *Orchestrator) Generate(ctx context.Context, topic string) (Story, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Story{}, ErrEmptyTopic
	}
	log := o.log.With("topic", topic)

	o.progress(StepPlanning)
	planText, err := o.llm.Complete(ctx, PlanPrompt(topic))
	if err != nil {
		return Story{}, fmt.Errorf("plan call: %w", err)
	}
	plan, err := ParsePlan(planText)
	if err != nil {
		return Story{}, err
	}
	log.Debug("plan ready", "deel1", plan.Deel1, "deel2", plan.Deel2, "deel3", plan.Deel3)

	parts := make([]string, 0, PartCount)
	for n := 1; n <= PartCount; n++ {
		o.progress(StepWriting(n))
		var previous string
		if n > 1 {
			previous = parts[n-2]
		}
		part, err := o.llm.Complete(ctx, PartPrompt(topic, n, plan.Part(n), previous))
		if err != nil {
			return Story{}, fmt.Errorf("part %d call: %w", n, err)
		}
		log.Debug("part written", "part", n, "length", len(part))
		parts = append(parts, part)
	}

	o.progress(StepDone)
	return Story{Topic: topic, Plan: plan, Parts: parts}, nil
}

// Tell is the top-level call site: it returns the story text, or
// FailureMessage together with the underlying error. A blank topic returns
// ErrEmptyTopic and an empty string without calling anything.
func (o *Orchestrator) Tell(ctx context.Context, topic string) (string, error) {
	s, err := o.Generate(ctx, topic)
	if errors.Is(err, ErrEmptyTopic) {
		return "", err
	}
	if err != nil {
		o.log.Error("error generating story", "topic", strings.TrimSpace(topic), "err", err)
		return FailureMessage, err
	}
	return s.Text(), nil
}
