// Package reservation decides whether a table request can be scheduled.
//
// Validation is a pure function of its input and an injected "now"; it never
// touches the database and never reads the wall clock itself.
package reservation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	MinPartySize = 1
	MaxPartySize = 20

	DateLayout = "2006-01-02"
)

const (
	MsgDateRequired = "La date est requise"
	MsgTimeRequired = "L'heure est requise"
	MsgNotInFuture  = "La date et l'heure doivent être dans le futur"
)

// ErrContractViolation marks caller mistakes (missing arguments, unsupported
// types). Guest input problems are reported in Result.Errors instead.
var ErrContractViolation = errors.New("reservation: contract violation")

// Input is the unvalidated reservation request as submitted by the form.
type Input struct {
	Date            string `json:"reservation_date"`
	Time            string `json:"reservation_time"`
	PartySize       any    `json:"number_of_people"`
	SpecialRequests string `json:"special_requests"`
}

// Result lists every failed rule; Errors is empty iff Accepted.
type Result struct {
	Accepted bool     `json:"accepted"`
	Errors   []string `json:"errors"`
}

// Validator holds the service windows and the restaurant timezone. The zero
// value validates against DefaultSchedule in UTC.
type Validator struct {
	Schedule Schedule
	Location *time.Location
}

func NewValidator(schedule Schedule, loc *time.Location) Validator {
	return Validator{Schedule: schedule, Location: loc}
}

// PartySizeMessage is reported when the number of guests is missing or out of range.
func PartySizeMessage() string {
	return fmt.Sprintf("Le nombre de personnes doit être entre %d et %d", MinPartySize, MaxPartySize)
}

// WindowMessage is reported when the requested time is outside every service window.
func (v Validator) WindowMessage() string {
	return "Horaires disponibles : " + v.schedule().Describe()
}

// Validate runs the checks in a fixed order (date, time, party size, future,
// service window) and accumulates every failure. The future and window checks
// only run when both date and time parse.
func (v Validator) Validate(in Input, now time.Time) (Result, error) {
	if now.IsZero() {
		return Result{}, fmt.Errorf("%w: now is required", ErrContractViolation)
	}
	size, sizeOK, err := CoercePartySize(in.PartySize)
	if err != nil {
		return Result{}, err
	}

	errs := []string{}
	if strings.TrimSpace(in.Date) == "" {
		errs = append(errs, MsgDateRequired)
	}
	if strings.TrimSpace(in.Time) == "" {
		errs = append(errs, MsgTimeRequired)
	}
	if !sizeOK || size < MinPartySize || size > MaxPartySize {
		errs = append(errs, PartySizeMessage())
	}

	if at, offset, ok := v.resolve(in); ok {
		if !at.After(now) {
			errs = append(errs, MsgNotInFuture)
		}
		if !v.schedule().AllowsOffset(offset) {
			errs = append(errs, v.WindowMessage())
		}
	}

	return Result{Accepted: len(errs) == 0, Errors: errs}, nil
}

// ReservedFor combines the date and time of in into an instant in the
// restaurant timezone. ok is false when either part does not parse.
func (v Validator) ReservedFor(in Input) (time.Time, bool) {
	at, _, ok := v.resolve(in)
	return at, ok
}

func (v Validator) resolve(in Input) (time.Time, time.Duration, bool) {
	loc := v.location()
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(in.Date), loc)
	if err != nil {
		return time.Time{}, 0, false
	}
	offset, err := parseClock(in.Time)
	if err != nil {
		return time.Time{}, 0, false
	}
	at := time.Date(day.Year(), day.Month(), day.Day(),
		int(offset/time.Hour), int(offset%time.Hour/time.Minute), int(offset%time.Minute/time.Second),
		0, loc)
	return at, offset, true
}

func (v Validator) schedule() Schedule {
	if len(v.Schedule.Windows) == 0 {
		return DefaultSchedule()
	}
	return v.Schedule
}

func (v Validator) location() *time.Location {
	if v.Location == nil {
		return time.UTC
	}
	return v.Location
}

// CoercePartySize turns the submitted number of guests into an int. ok is false
// for values that are well typed but not a whole number (user error); err is
// set for nil or unsupported types (contract violation).
func CoercePartySize(raw any) (size int, ok bool, err error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, fmt.Errorf("%w: party size is required", ErrContractViolation)
	case int:
		return v, true, nil
	case int8:
		return int(v), true, nil
	case int16:
		return int(v), true, nil
	case int32:
		return int(v), true, nil
	case int64:
		return clampInt64(v)
	case uint:
		return clampUint64(uint64(v))
	case uint8:
		return int(v), true, nil
	case uint16:
		return int(v), true, nil
	case uint32:
		return clampUint64(uint64(v))
	case uint64:
		return clampUint64(v)
	case float32:
		return wholeNumber(float64(v))
	case float64:
		return wholeNumber(v)
	case json.Number:
		return parseNumeric(v.String())
	case string:
		return parseNumeric(v)
	default:
		return 0, false, fmt.Errorf("%w: unsupported party size type %T", ErrContractViolation, raw)
	}
}

func parseNumeric(s string) (int, bool, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampInt64(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, nil
	}
	return wholeNumber(f)
}

func wholeNumber(f float64) (int, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false, nil
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false, nil
	}
	return int(f), true, nil
}

func clampInt64(n int64) (int, bool, error) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false, nil
	}
	return int(n), true, nil
}

func clampUint64(n uint64) (int, bool, error) {
	if n > math.MaxInt32 {
		return 0, false, nil
	}
	return int(n), true, nil
}
