package reservation

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paris = time.FixedZone("CET", 3600)

// 2026-03-10 09:00 local time.
var now = time.Date(2026, 3, 10, 9, 0, 0, 0, paris)

const (
	yesterday = "2026-03-09"
	today     = "2026-03-10"
	tomorrow  = "2026-03-11"
)

func newTestValidator() Validator {
	return NewValidator(DefaultSchedule(), paris)
}

func TestValidateAcceptsEveryPartySizeInRange(t *testing.T) {
	v := newTestValidator()
	for size := MinPartySize; size <= MaxPartySize; size++ {
		res, err := v.Validate(Input{Date: tomorrow, Time: "12:30", PartySize: size}, now)
		require.NoError(t, err)
		assert.True(t, res.Accepted, "party of %d", size)
		assert.Empty(t, res.Errors)
		assert.NotNil(t, res.Errors)
	}
}

func TestValidateRejectsPartySizeOutOfRange(t *testing.T) {
	v := newTestValidator()
	for _, size := range []any{0, 21, -3, 100, "0", "21", "abc", "", 4.5} {
		res, err := v.Validate(Input{Date: tomorrow, Time: "20:00", PartySize: size}, now)
		require.NoError(t, err)
		assert.False(t, res.Accepted, "party size %v", size)
		assert.Equal(t, []string{PartySizeMessage()}, res.Errors, "party size %v", size)
	}
}

func TestValidateServiceWindows(t *testing.T) {
	v := newTestValidator()
	tests := []struct {
		time     string
		accepted bool
	}{
		{"11:59", false},
		{"12:00", true},
		{"13:15", true},
		{"14:30", true},
		{"14:31", false},
		{"16:00", false},
		{"18:59", false},
		{"19:00", true},
		{"22:30", true},
		{"22:31", false},
		{"23:59", false},
		{"00:00", false},
		{"03:00", false},
		{"12:30:00", true},
		{"14:30:00", true},
		{"14:30:59", false},
		{"22:30:45", false},
		{"11:59:59", false},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			res, err := v.Validate(Input{Date: tomorrow, Time: tt.time, PartySize: 4}, now)
			require.NoError(t, err)
			assert.Equal(t, tt.accepted, res.Accepted)
			if !tt.accepted {
				assert.Contains(t, res.Errors, v.WindowMessage())
			}
		})
	}
}

func TestValidateRequiresFutureTimestamp(t *testing.T) {
	v := newTestValidator()

	res, err := v.Validate(Input{Date: yesterday, Time: "20:00", PartySize: 2}, now)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Errors, MsgNotInFuture)

	atNow := now.Add(3*time.Hour + 30*time.Minute) // 12:30 today
	res, err = v.Validate(Input{Date: today, Time: "12:30", PartySize: 2}, atNow)
	require.NoError(t, err)
	assert.Equal(t, []string{MsgNotInFuture}, res.Errors)

	res, err = v.Validate(Input{Date: today, Time: "12:30", PartySize: 2}, now)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestValidateScenarios(t *testing.T) {
	v := newTestValidator()

	res, err := v.Validate(Input{Date: tomorrow, Time: "12:30", PartySize: 4}, now)
	require.NoError(t, err)
	assert.Equal(t, Result{Accepted: true, Errors: []string{}}, res)

	res, err = v.Validate(Input{Date: tomorrow, Time: "15:00", PartySize: 4}, now)
	require.NoError(t, err)
	assert.Equal(t, Result{
		Accepted: false,
		Errors:   []string{"Horaires disponibles : 12h00-14h30 et 19h00-22h30"},
	}, res)
}

func TestValidateAccumulatesInOrder(t *testing.T) {
	v := newTestValidator()

	res, err := v.Validate(Input{Date: tomorrow, Time: "03:00", PartySize: 25}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{PartySizeMessage(), v.WindowMessage()}, res.Errors)

	res, err = v.Validate(Input{Date: yesterday, Time: "16:00", PartySize: "0"}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{PartySizeMessage(), MsgNotInFuture, v.WindowMessage()}, res.Errors)

	res, err = v.Validate(Input{PartySize: 0}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{MsgDateRequired, MsgTimeRequired, PartySizeMessage()}, res.Errors)
}

func TestValidateIsDeterministic(t *testing.T) {
	v := newTestValidator()
	in := Input{Date: yesterday, Time: "03:00", PartySize: 30}

	first, err := v.Validate(in, now)
	require.NoError(t, err)
	second, err := v.Validate(in, now)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

func TestValidateSkipsTimeChecksOnMalformedInput(t *testing.T) {
	v := newTestValidator()
	tests := []Input{
		{Date: "31/12/2026", Time: "20:00", PartySize: 2},
		{Date: tomorrow, Time: "8pm", PartySize: 2},
		{Date: "2026-02-30", Time: "25:99", PartySize: 2},
	}
	for _, in := range tests {
		res, err := v.Validate(in, now)
		require.NoError(t, err)
		assert.NotContains(t, res.Errors, MsgNotInFuture)
		assert.NotContains(t, res.Errors, v.WindowMessage())

		_, ok := v.ReservedFor(in)
		assert.False(t, ok)
	}
}

func TestValidateContractViolations(t *testing.T) {
	v := newTestValidator()

	_, err := v.Validate(Input{Date: tomorrow, Time: "12:30"}, now)
	assert.True(t, errors.Is(err, ErrContractViolation))

	_, err = v.Validate(Input{Date: tomorrow, Time: "12:30", PartySize: true}, now)
	assert.True(t, errors.Is(err, ErrContractViolation))

	_, err = v.Validate(Input{Date: tomorrow, Time: "12:30", PartySize: 2}, time.Time{})
	assert.True(t, errors.Is(err, ErrContractViolation))
}

func TestCoercePartySize(t *testing.T) {
	tests := []struct {
		raw  any
		size int
		ok   bool
	}{
		{4, 4, true},
		{int64(7), 7, true},
		{uint8(3), 3, true},
		{float64(6), 6, true},
		{6.5, 0, false},
		{"12", 12, true},
		{" 8 ", 8, true},
		{"8.0", 8, true},
		{"huit", 0, false},
		{json.Number("5"), 5, true},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		size, ok, err := CoercePartySize(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.ok, ok, "%v", tt.raw)
		assert.Equal(t, tt.size, size, "%v", tt.raw)
	}
}

func TestCustomSchedule(t *testing.T) {
	brunch, err := ParseWindow("11:30", "15:00")
	require.NoError(t, err)
	v := NewValidator(Schedule{Windows: []Window{brunch}}, paris)

	res, err := v.Validate(Input{Date: tomorrow, Time: "15:00", PartySize: 2}, now)
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	res, err = v.Validate(Input{Date: tomorrow, Time: "20:00", PartySize: 2}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"Horaires disponibles : 11h30-15h00"}, res.Errors)
}

func TestParseWindowErrors(t *testing.T) {
	for _, pair := range [][2]string{{"25:00", "26:00"}, {"12:00", "noon"}, {"15:00", "12:00"}} {
		_, err := ParseWindow(pair[0], pair[1])
		assert.True(t, errors.Is(err, ErrInvalidWindow), "%v", pair)
	}
}

func TestReservedForUsesRestaurantTimezone(t *testing.T) {
	v := newTestValidator()
	at, ok := v.ReservedFor(Input{Date: tomorrow, Time: "19:45"})
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 11, 18, 45, 0, 0, time.UTC), at.UTC())
}

func TestZeroValidatorUsesDefaults(t *testing.T) {
	var v Validator
	utcNow := now.UTC()
	for h := 0; h < 24; h++ {
		tm := strconv.Itoa(h/10) + strconv.Itoa(h%10) + ":00"
		res, err := v.Validate(Input{Date: tomorrow, Time: tm, PartySize: 2}, utcNow)
		require.NoError(t, err)
		want := (h >= 12 && h <= 14) || (h >= 19 && h <= 22)
		assert.Equal(t, want, res.Accepted, tm)
	}
}
