package darksky

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// DecodeForecast reads one JSON forecast document from r.
// Unknown fields are ignored and absent fields stay nil.
func DecodeForecast(r io.Reader) (*Forecast, error) {
	dec := json.NewDecoder(r)

	var forecast Forecast
	if err := dec.Decode(&forecast); err != nil {
		return nil, decodeFailed(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, decodeFailed(errors.New("unexpected data after forecast document"))
	}
	return &forecast, nil
}

func UnmarshalForecast(data []byte) (*Forecast, error) {
	return DecodeForecast(bytes.NewReader(data))
}
