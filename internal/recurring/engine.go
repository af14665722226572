// Package recurring implements the recurrence engine: it turns due
// recurring templates into new shared expenses and advances each
// template's schedule exactly once per occurrence.
package recurring

import (
	"errors"
	"fmt"

	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotCreator       = errors.New("only the creator can generate expenses from this template")
	ErrTemplateInactive = errors.New("cannot generate from a paused template")
	ErrNoMembers        = errors.New("the template has no members to split the expense between")

	// errNotDue marks a template that was fetched as due but failed the
	// re-check inside the transaction. Not an error, just a skip.
	errNotDue = errors.New("template is no longer due")
)

var (
	generatedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitify_recurring_generated_total",
		Help: "Number of shared expenses generated from recurring templates.",
	})

	skippedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitify_recurring_skipped_total",
		Help: "Number of due templates skipped during a sweep, partitioned by reason.",
	}, []string{"reason"})
)

// Engine scans recurring templates and materializes shared expenses from
// them.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// ProcessDue generates one shared expense for every template that is due
// as of the given day and returns the number of successful generations.
//
// Each template is processed in its own transaction: the expense insert
// and the schedule advance commit together or not at all, and one
// template's failure never aborts the batch. Running ProcessDue twice for
// the same day generates at most one expense per template because the
// first run advances the next occurrence date past the day before the
// second run re-checks eligibility.
func (e *Engine) ProcessDue(asOf types.Date) (int, error) {
	templates, err := e.store.DueTemplates(asOf)
	if err != nil {
		return 0, fmt.Errorf("scanning due templates: %w", err)
	}

	generated := 0
	for _, template := range templates {
		_, err := e.generate(template.ID, asOf, false)
		switch {
		case errors.Is(err, errNotDue):
			skippedCount.WithLabelValues("not_due").Inc()
			log.Warn().Str("template", template.ID.String()).Msg("template no longer due, skipping")
			continue

		case errors.Is(err, ErrNoMembers):
			skippedCount.WithLabelValues("no_members").Inc()
			log.Warn().Str("template", template.ID.String()).Msg("template has no members, skipping")
			continue

		case err != nil:
			skippedCount.WithLabelValues("error").Inc()
			log.Error().Err(err).Str("template", template.ID.String()).Msg("generating expense failed")
			continue
		}

		generated++
		generatedCount.Inc()
	}

	log.Info().Int("due", len(templates)).Int("generated", generated).Str("asOf", asOf.String()).Msg("recurring sweep complete")
	return generated, nil
}

// GenerateNow materializes a shared expense from a template on demand,
// regardless of whether the template is due. Only the creator may trigger
// it, and only for active templates. The schedule advances exactly as it
// would for a scheduled generation.
func (e *Engine) GenerateNow(templateID, actingUserID uuid.UUID) (uuid.UUID, error) {
	template, err := e.store.Template(templateID)
	if err != nil {
		return uuid.Nil, err
	}

	if template.CreatedBy != actingUserID {
		return uuid.Nil, ErrNotCreator
	}

	if !template.IsActive {
		return uuid.Nil, ErrTemplateInactive
	}

	id, err := e.generate(templateID, types.Today(), true)
	if err != nil {
		return uuid.Nil, err
	}

	generatedCount.Inc()
	return id, nil
}

// generate performs the atomic create-and-advance pair for one template.
//
// The template is re-read inside the transaction so that a concurrent
// sweep or manual trigger cannot both observe the same due state: whoever
// commits first advances the schedule, the other sees the new date on its
// re-check.
func (e *Engine) generate(templateID uuid.UUID, asOf types.Date, manual bool) (uuid.UUID, error) {
	var expenseID uuid.UUID

	err := e.store.InTransaction(func(tx Tx) error {
		template, err := tx.Template(templateID)
		if err != nil {
			return err
		}

		if manual {
			if !template.IsActive {
				return ErrTemplateInactive
			}
		} else if !template.DueOn(asOf) {
			return errNotDue
		}

		if len(template.Members) == 0 {
			return ErrNoMembers
		}

		expense := models.SharedExpense{
			GroupID:             template.GroupID,
			CreatedBy:           template.CreatedBy,
			Name:                template.Name,
			Amount:              template.Amount,
			RecurringTemplateID: &template.ID,
			Participants:        template.Members,
		}

		if err := tx.CreateSharedExpense(&expense); err != nil {
			return fmt.Errorf("creating generated expense: %w", err)
		}

		next := NextOccurrence(template.NextOccurrenceDate, template.Frequency)
		if err := tx.AdvanceTemplate(template.ID, next); err != nil {
			return fmt.Errorf("advancing template schedule: %w", err)
		}

		expenseID = expense.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return expenseID, nil
}
