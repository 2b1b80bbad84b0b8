package filter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adminradio/perspective/types"
)

// DatePattern is the only supported editable date format. It is fixed, not
// configurable.
const DatePattern = "2006-01-02"

// Parse converts raw editable text into a filter term under the given
// operator and column type. The second return value reports whether an
// update should be applied: false means the previous term must be retained
// and no patch emitted (mid-keystroke numeric input such as "-" must not
// clobber the last valid value).
//
// The "in" operator takes precedence over the column type: raw text is split
// on commas into trimmed string scalars, keeping empty pieces.
func Parse(raw string, op types.FilterOp, columnType types.ColumnType) (types.FilterTerm, bool) {
	if op == types.OpIn {
		pieces := strings.Split(raw, ",")
		values := make([]types.Scalar, len(pieces))
		for i, piece := range pieces {
			values[i] = types.StringScalar(strings.TrimSpace(piece))
		}
		return types.ArrayTerm(values), true
	}

	switch columnType {
	case types.ColumnString:
		return types.ScalarTerm(types.StringScalar(raw)), true

	case types.ColumnInteger:
		if raw == "" {
			// An empty field is a deliberate request to clear the condition.
			return types.ScalarTerm(types.NullScalar()), true
		}
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.FilterTerm{}, false
		}
		return types.ScalarTerm(types.FloatScalar(math.Floor(number))), true

	case types.ColumnFloat:
		if raw == "" {
			return types.ScalarTerm(types.NullScalar()), true
		}
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.FilterTerm{}, false
		}
		return types.ScalarTerm(types.FloatScalar(number)), true

	case types.ColumnDate:
		day, err := time.ParseInLocation(DatePattern, raw, time.Local)
		if err != nil {
			return types.ScalarTerm(types.NullScalar()), true
		}
		midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
		return types.ScalarTerm(types.DateTimeScalar(toMillis(midnight))), true

	default:
		return types.FilterTerm{}, false
	}
}

// Format renders a stored term back into editable text, the inverse of Parse.
// The second return value reports whether the editable field should change:
// false means leave the current text alone (unset dates must not surface as
// an epoch date, and array terms are edited as raw comma text, never through
// Format).
func Format(term types.FilterTerm, columnType types.ColumnType) (string, bool) {
	if term.Array {
		return "", false
	}
	scalar := term.Scalar
	if scalar.Kind == types.KindDateTime {
		if scalar.Millis <= 0 {
			return "", false
		}
		return fromMillis(scalar.Millis).Format(DatePattern), true
	}
	return scalar.Display(), true
}

func toMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

func fromMillis(millis int64) time.Time {
	return time.Unix(millis/1000, (millis%1000)*int64(time.Millisecond))
}
