package cinemaserver

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// entityID is the ID scalar. Ids are int64 on the store side and strings
// on the wire; numeric variables are accepted as well.
type entityID int64

func (entityID) ImplementsGraphQLType(name string) bool { return name == "ID" }

func (id *entityID) UnmarshalGraphQL(input any) error {
	switch v := input.(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", v, err)
		}
		*id = entityID(n)
	case int32:
		*id = entityID(v)
	case int64:
		*id = entityID(v)
	case float64:
		if v != float64(int64(v)) {
			return fmt.Errorf("invalid ID %v", v)
		}
		*id = entityID(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", v, err)
		}
		*id = entityID(n)
	default:
		return fmt.Errorf("wrong type for ID: %T", input)
	}
	return nil
}

func (id entityID) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, strconv.FormatInt(int64(id), 10)), nil
}

func (id *entityID) int64() *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}

// date is the Date scalar, a calendar day formatted as 2006-01-02.
type date struct {
	time.Time
}

func (date) ImplementsGraphQLType(name string) bool { return name == "Date" }

func (d *date) UnmarshalGraphQL(input any) error {
	s, ok := input.(string)
	if !ok {
		return fmt.Errorf("wrong type for Date: %T", input)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid Date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d date) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, d.Format(dateLayout)), nil
}

func (d *date) time() *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

// jsonObject is the JSON scalar.
type jsonObject map[string]any

func (jsonObject) ImplementsGraphQLType(name string) bool { return name == "JSON" }

func (o *jsonObject) UnmarshalGraphQL(input any) error {
	m, ok := input.(map[string]any)
	if !ok {
		return fmt.Errorf("wrong type for JSON: %T", input)
	}
	*o = m
	return nil
}

func (o jsonObject) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(o))
}
