package cache

import (
	"fmt"

	"github.com/goccy/go-json"
)

func encode(value any) (text string, err error) {
	// go-json panics on a few unsupported types instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func decode(text string, dst any) error {
	return json.Unmarshal([]byte(text), dst)
}
