package template

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// cronParser mirrors the teacher's scheduler/cron.go field set: minute hour
// dom month dow, no seconds field.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextDue computes a trigger's next scheduled time after from, generalized
// from the teacher's CalculateNextDue (cron via robfig/cron/v3, interval via
// plain duration addition).
func NextDue(trigger *domain.Trigger, from time.Time) (time.Time, error) {
	switch trigger.Kind {
	case domain.TriggerKindCron:
		schedule, err := cronParser.Parse(trigger.CronExpression)
		if err != nil {
			return time.Time{}, fmt.Errorf("template: parse cron expression %q: %w", trigger.CronExpression, err)
		}
		return schedule.Next(from).UTC(), nil
	case domain.TriggerKindInterval:
		return from.Add(time.Duration(trigger.IntervalSeconds * float64(time.Second))).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("template: unknown trigger kind %q", trigger.Kind)
	}
}

// ValidateCronExpr reports whether a cron expression is well-formed.
func ValidateCronExpr(expr string) error {
	_, err := cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("template: invalid cron expression %q: %w", expr, err)
	}
	return nil
}
