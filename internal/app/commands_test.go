package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand("test")

	names := make([]string, 0, 2)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"serve", "convert"}, names)
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestConvertCommand_Swap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v6/test-key/latest/USD":
			_, _ = w.Write([]byte(`{"result":"success","base_code":"USD","conversion_rates":{"USD":1,"EUR":0.9}}`))
		case "/v6/test-key/latest/EUR":
			_, _ = w.Write([]byte(`{"result":"success","base_code":"EUR","conversion_rates":{"EUR":1,"USD":1.11}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	t.Chdir(dir)
	configFile := writeConfig(t, dir, srv.URL+"/v6")

	var out bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&out)
	root.SetArgs([]string{"convert", "--config", configFile, "--from", "USD", "--to", "EUR", "--amount", "100", "--swap"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "100 EUR = 111.00 USD")
	require.Contains(t, out.String(), "1 EUR = 1.110000 USD")
}
