package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/httperr"
)

func TestValidateRuleSet(t *testing.T) {
	t.Run("ValidWeek", func(t *testing.T) {
		err := ValidateRuleSet([]RuleInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
			{DayOfWeek: 1, StartTime: "14:00", EndTime: "18:00", Active: true},
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "18:00", Active: true},
		})
		assert.NoError(t, err)
	})

	t.Run("AbuttingRulesAllowed", func(t *testing.T) {
		err := ValidateRuleSet([]RuleInput{
			{DayOfWeek: 3, StartTime: "09:00", EndTime: "12:00", Active: true},
			{DayOfWeek: 3, StartTime: "12:00", EndTime: "15:00", Active: true},
		})
		assert.NoError(t, err)
	})

	t.Run("OverlapSameDayRejected", func(t *testing.T) {
		err := ValidateRuleSet([]RuleInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
			{DayOfWeek: 1, StartTime: "11:00", EndTime: "14:00", Active: true},
		})
		require.Error(t, err)
		assert.Equal(t, "overlapping_rules", httperr.CodeOf(err))
	})

	t.Run("OverlapAcrossDaysAllowed", func(t *testing.T) {
		err := ValidateRuleSet([]RuleInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00", Active: true},
		})
		assert.NoError(t, err)
	})

	t.Run("InactiveRuleExemptFromOverlap", func(t *testing.T) {
		err := ValidateRuleSet([]RuleInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
			{DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", Active: false},
		})
		assert.NoError(t, err)
	})

	t.Run("BadInputs", func(t *testing.T) {
		cases := []struct {
			name string
			rule RuleInput
			code string
		}{
			{"DayTooHigh", RuleInput{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}, "invalid_day_of_week"},
			{"DayNegative", RuleInput{DayOfWeek: -1, StartTime: "09:00", EndTime: "10:00"}, "invalid_day_of_week"},
			{"MalformedStart", RuleInput{DayOfWeek: 1, StartTime: "9am", EndTime: "10:00"}, "malformed_time"},
			{"MalformedEnd", RuleInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "25:00"}, "malformed_time"},
			{"StartEqualsEnd", RuleInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"}, "start_after_end"},
			{"StartAfterEnd", RuleInput{DayOfWeek: 1, StartTime: "12:00", EndTime: "09:00"}, "start_after_end"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := ValidateRuleSet([]RuleInput{tc.rule})
				require.Error(t, err)
				assert.Equal(t, tc.code, httperr.CodeOf(err))
				assert.True(t, httperr.IsKind(err, httperr.KindValidation))
			})
		}
	})
}
