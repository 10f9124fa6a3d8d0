package scalar

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/llehouerou/go-graphql-projection/internal/reflectutil"
)

// DateLayout is the wire layout of the Date scalar.
const DateLayout = "2006-01-02"

// Int64ID carries the ID scalar as int64. Numbers and numeric strings are
// both accepted when decoding; encoding produces a JSON number.
var Int64ID = Codec{
	GoType: reflect.TypeOf(int64(0)),
	Encode: func(v any) (any, error) {
		i, ok := reflectutil.Int64(v)
		if !ok {
			return nil, fmt.Errorf("want an integer, got %T", v)
		}
		return i, nil
	},
	Decode: func(v any) (any, error) {
		return toInt64(v)
	},
}

// Date carries a calendar date as time.Time in UTC.
var Date = Codec{
	GoType: reflect.TypeOf(time.Time{}),
	Encode: func(v any) (any, error) {
		switch v := v.(type) {
		case time.Time:
			return v.Format(DateLayout), nil
		case *time.Time:
			if v != nil {
				return v.Format(DateLayout), nil
			}
		case string:
			if _, err := time.Parse(DateLayout, v); err != nil {
				return nil, err
			}
			return v, nil
		}
		return nil, fmt.Errorf("want a time.Time, got %T", v)
	},
	Decode: func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", v)
		}
		return time.Parse(DateLayout, s)
	},
}

// DateTime carries an RFC 3339 timestamp as time.Time.
var DateTime = Codec{
	GoType: reflect.TypeOf(time.Time{}),
	Encode: func(v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("want a time.Time, got %T", v)
		}
		return t.Format(time.RFC3339Nano), nil
	},
	Decode: func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", v)
		}
		return time.Parse(time.RFC3339Nano, s)
	},
}

// JSON carries an arbitrary JSON object as map[string]any. Numbers inside
// the object keep the json.Number form the decoder produced.
var JSON = Codec{
	GoType: reflect.TypeOf(map[string]any(nil)),
	Encode: func(v any) (any, error) {
		switch v := v.(type) {
		case map[string]any:
			return v, nil
		case json.RawMessage:
			var m map[string]any
			if err := json.Unmarshal(v, &m); err != nil {
				return nil, err
			}
			return m, nil
		}
		return nil, fmt.Errorf("want a map[string]any, got %T", v)
	},
	Decode: func(v any) (any, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("want an object, got %T", v)
		}
		return m, nil
	},
}

// UUID carries a UUID as uuid.UUID.
var UUID = Codec{
	GoType: reflect.TypeOf(uuid.UUID{}),
	Encode: func(v any) (any, error) {
		switch v := v.(type) {
		case uuid.UUID:
			return v.String(), nil
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, err
			}
			return id.String(), nil
		}
		return nil, fmt.Errorf("want a uuid.UUID, got %T", v)
	},
	Decode: func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", v)
		}
		return uuid.Parse(s)
	},
}
