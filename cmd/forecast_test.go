package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/darksky-forecast/pkg/darksky"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("DSF_LOGGING_LEVEL", "error")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestForecastCommand(t *testing.T) {
	var gotPath, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"latitude":52.516275,"longitude":13.377704,"timezone":"Europe/Berlin","extra":true}`))
	}))
	defer upstream.Close()

	tmpl := upstream.URL + "/forecast/##key##/##latitude##,##longitude####time##"

	t.Run("decoded", func(t *testing.T) {
		out, err := runCLI(t, "forecast",
			"--key", "k", "--url", tmpl,
			"--lat", "52.516275", "--lon", "13.377704",
			"--lang", "zh-tw", "--units", "us", "--exclude", "minutely", "--extend",
			"--time", "2017-11-06T18:34:37Z")
		require.NoError(t, err)

		assert.Equal(t, "/forecast/k/52.516275,13.377704,1509993277", gotPath)
		assert.Equal(t, "lang=zh-tw&units=us&exclude=minutely&extend=hourly", gotQuery)

		forecast, err := darksky.UnmarshalForecast([]byte(out))
		require.NoError(t, err)
		require.NotNil(t, forecast.Timezone)
		assert.Equal(t, "Europe/Berlin", *forecast.Timezone)
		assert.NotContains(t, out, "extra")
	})

	t.Run("raw", func(t *testing.T) {
		out, err := runCLI(t, "forecast", "--key", "k", "--url", tmpl, "--lat", "1", "--lon", "2", "--raw")
		require.NoError(t, err)
		assert.Contains(t, out, `"extra":true`)
	})
}

func TestForecastCommand_Errors(t *testing.T) {
	_, err := runCLI(t, "forecast", "--lat", "52.5", "--lon", "13.4")
	assert.ErrorIs(t, err, darksky.ErrMissingParameter)

	_, err = runCLI(t, "forecast", "--key", "k", "--lat", "91", "--lon", "13.4")
	assert.ErrorIs(t, err, darksky.ErrInvalidParameter)

	_, err = runCLI(t, "forecast", "--key", "k", "--lat", "52.5", "--lon", "13.4", "--time", "yesterday")
	assert.ErrorContains(t, err, "invalid --time")

	_, err = runCLI(t, "forecast", "--key", "k", "--lon", "13.4")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
