package hstore

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var ErrJsonCouldNotBeUnmarshalled = errors.New("json contents could not be unmarshalled, probably is invalid")
var ErrJsonPathInvalid = errors.New("json path is invalid")

// JsonValue reads typed values back out of a serialized dict.
type JsonValue struct {
	b []byte
}

func (js *JsonValue) Unmarshal(dest interface{}) error {
	err := json.Unmarshal(js.b, &dest)
	if err != nil {
		return errors.Wrap(ErrJsonCouldNotBeUnmarshalled, err.Error())
	}

	return nil
}

func (js *JsonValue) String(path string) (string, error) {
	raw := gjson.GetBytes(js.b, path)
	if !raw.Exists() {
		return "", ErrJsonPathInvalid
	}
	return raw.String(), nil
}

func (js *JsonValue) StringOrDefault(path, def string) string {
	if v, err := js.String(path); err != nil {
		return def
	} else {
		return v
	}
}

func (js *JsonValue) Float(path string) (float64, error) {
	get := gjson.GetBytes(js.b, path)
	if !get.Exists() {
		return 0, ErrJsonPathInvalid
	}
	return get.Float(), nil
}

func (js *JsonValue) FloatOrDefault(path string, def float64) float64 {
	if v, err := js.Float(path); err != nil {
		return def
	} else {
		return v
	}
}

func (js *JsonValue) Int(path string) (int, error) {
	get := gjson.GetBytes(js.b, path)
	if !get.Exists() {
		return 0, ErrJsonPathInvalid
	}

	return int(get.Int()), nil
}

func (js *JsonValue) IntOrDefault(path string, def int) int {
	if v, err := js.Int(path); err != nil {
		return def
	} else {
		return v
	}
}

func (js *JsonValue) Bool(path string) (bool, error) {
	get := gjson.GetBytes(js.b, path)
	if !get.Exists() {
		return false, ErrJsonPathInvalid
	}

	return get.Bool(), nil
}

func (js *JsonValue) BoolOrDefault(path string, def bool) bool {
	if v, err := js.Bool(path); err != nil {
		return def
	} else {
		return v
	}
}
