package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type class struct {
	Name  string `validate:"required"`
	Day   string `validate:"required,weekday"`
	Start string `validate:"required,clock"`
	Due   string `validate:"omitempty,isodate"`
	Count int    `validate:"gte=0,lte=20"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      class
		wantErr map[string]string
	}{
		{name: "valid", in: class{Name: "Math", Day: "monday", Start: "09:00", Due: "2026-05-01", Count: 3}},
		{name: "mixed case day", in: class{Name: "Math", Day: "FRIDAY", Start: "23:59"}},
		{
			name:    "missing name",
			in:      class{Day: "Monday", Start: "09:00"},
			wantErr: map[string]string{"Name": "Name is required"},
		},
		{
			name:    "bad day and time",
			in:      class{Name: "x", Day: "Funday", Start: "9:00"},
			wantErr: map[string]string{"Day": "Day must be a day of the week", "Start": "Start must be a time as HH:MM"},
		},
		{
			name:    "bad date",
			in:      class{Name: "x", Day: "Monday", Start: "10:00", Due: "05/01/2026"},
			wantErr: map[string]string{"Due": "Due must be a date as YYYY-MM-DD"},
		},
		{
			name:    "range",
			in:      class{Name: "x", Day: "Monday", Start: "10:00", Count: 21},
			wantErr: map[string]string{"Count": "Count must be less than or equal to 20"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsError(err))
			assert.Equal(t, tt.wantErr, Fields(err))
		})
	}
}

func TestErrorMessageIsStable(t *testing.T) {
	err := Struct(class{Day: "x", Start: "y"})
	require.Error(t, err)
	assert.Equal(t,
		"validation failed: Day must be a day of the week; Name is required; Start must be a time as HH:MM",
		err.Error())
}

func TestFieldf(t *testing.T) {
	err := Fieldf("EndTime", "%s must be after %s", "EndTime", "StartTime")
	assert.Equal(t, "validation failed: EndTime must be after StartTime", err.Error())
	assert.True(t, IsError(err))
	assert.Nil(t, Fields(errors.New("plain")))
}
