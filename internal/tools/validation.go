package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"callbridge/internal/config"

	"github.com/go-playground/validator/v10"
)

// ReservationArgs are the arguments of create_reservation.
type ReservationArgs struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone,omitempty"`
	Date   string `json:"date" validate:"required"`
	Time   string `json:"time" validate:"required"`
	Guests *int   `json:"guests" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

type OrderItem struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// OrderArgs are the arguments of create_order.
type OrderArgs struct {
	Name    string      `json:"name" validate:"required"`
	Phone   string      `json:"phone,omitempty"`
	Items   []OrderItem `json:"items" validate:"required,dive"`
	Total   *float64    `json:"total" validate:"required"`
	Type    string      `json:"type,omitempty" validate:"omitempty,oneof=pickup delivery"`
	Address string      `json:"address,omitempty"`
	Time    string      `json:"time,omitempty"`
}

type problem struct {
	key  messageKey
	args []interface{}
}

// ValidationError lists what the AI must ask the guest again.
type ValidationError struct {
	Missing []string
	Invalid []problem
}

func (e *ValidationError) Error() string {
	return e.Message("en")
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

func (e *ValidationError) missing(field string) {
	e.Missing = append(e.Missing, field)
}

func (e *ValidationError) invalid(key messageKey, args ...interface{}) {
	e.Invalid = append(e.Invalid, problem{key: key, args: args})
}

// Message renders the error in the call's language, missing fields first.
func (e *ValidationError) Message(language string) string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, message(language, msgMissing, strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		texts := make([]string, 0, len(e.Invalid))
		for _, p := range e.Invalid {
			texts = append(texts, message(language, p.key, p.args...))
		}
		parts = append(parts, message(language, msgInvalid, strings.Join(texts, "; ")))
	}
	return strings.Join(parts, " ")
}

// Validator checks tool arguments against field schemas and restaurant rules.
type Validator struct {
	validate   *validator.Validate
	restaurant config.RestaurantConfig
	now        func() time.Time
}

func NewValidator(restaurant config.RestaurantConfig) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if restaurant.TimeZone == nil {
		restaurant.TimeZone = time.UTC
	}
	return &Validator{validate: v, restaurant: restaurant, now: time.Now}
}

// schema runs the struct tags and sorts failures into missing and invalid.
func (v *Validator) schema(args interface{}, verr *ValidationError) {
	err := v.validate.Struct(args)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.invalid(msgInvalidFormat, "arguments")
		return
	}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Tag() == "required" {
			verr.missing(field)
		} else {
			verr.invalid(msgInvalidFormat, field)
		}
	}
}

func (v *Validator) checkTime(field, value string, verr *ValidationError) {
	minute, err := config.ParseClock(value)
	if err != nil {
		verr.invalid(msgInvalidFormat, field)
		return
	}
	if len(v.restaurant.BusinessHours) == 0 {
		return
	}
	for _, w := range v.restaurant.BusinessHours {
		if w.Contains(minute) {
			return
		}
	}
	windows := make([]string, 0, len(v.restaurant.BusinessHours))
	for _, w := range v.restaurant.BusinessHours {
		windows = append(windows, w.String())
	}
	verr.invalid(msgOutsideHours, field, strings.Join(windows, ", "))
}

func (v *Validator) checkDate(field, value string, verr *ValidationError) {
	loc := v.restaurant.TimeZone
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), loc)
	if err != nil {
		verr.invalid(msgInvalidFormat, field)
		return
	}
	y, m, d := v.now().In(loc).Date()
	if date.Before(time.Date(y, m, d, 0, 0, 0, 0, loc)) {
		verr.invalid(msgPastDate, field)
	}
}

// Reservation validates create_reservation arguments.
func (v *Validator) Reservation(args ReservationArgs) *ValidationError {
	verr := &ValidationError{}
	v.schema(args, verr)

	if args.Date != "" {
		v.checkDate("date", args.Date, verr)
	}
	if args.Time != "" {
		v.checkTime("time", args.Time, verr)
	}
	if args.Guests != nil {
		g := *args.Guests
		if g < v.restaurant.MinGuests || (v.restaurant.MaxGuests > 0 && g > v.restaurant.MaxGuests) {
			verr.invalid(msgGuestRange, "guests", v.restaurant.MinGuests, v.restaurant.MaxGuests)
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// Order validates create_order arguments.
func (v *Validator) Order(args OrderArgs) *ValidationError {
	verr := &ValidationError{}
	v.schema(args, verr)

	if args.Items != nil && len(args.Items) == 0 {
		verr.invalid(msgEmpty, "items")
	}
	for i, item := range args.Items {
		if item.Quantity < 0 {
			verr.invalid(msgNegative, fmt.Sprintf("items[%d].quantity", i))
		}
	}
	if args.Total != nil && *args.Total < 0 {
		verr.invalid(msgNegative, "total")
	}
	if args.Type == "delivery" && strings.TrimSpace(args.Address) == "" {
		verr.missing("address")
	}
	if args.Time != "" {
		v.checkTime("time", args.Time, verr)
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// parseArguments decodes the AI's argument text. Anything unparseable becomes an
// empty map so validation reports the fields as missing.
func parseArguments(raw string) map[string]interface{} {
	args := map[string]interface{}{}
	if strings.TrimSpace(raw) == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]interface{}{}
	}
	return args
}

// bind copies a parsed argument map into a typed struct. Numeric fields sent as
// strings are coerced; fields that still do not fit are reported as invalid.
func bind(args map[string]interface{}, dst interface{}, numeric []string, verr *ValidationError) {
	for _, key := range numeric {
		if s, ok := args[key].(string); ok {
			if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				args[key] = n
			}
		}
	}
	for key, value := range args {
		raw, err := json.Marshal(map[string]interface{}{key: value})
		if err != nil {
			continue
		}
		var typeErr *json.UnmarshalTypeError
		if err := json.Unmarshal(raw, dst); errors.As(err, &typeErr) {
			verr.invalid(msgInvalidFormat, key)
		}
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}
