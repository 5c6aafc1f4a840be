//go:build !lambda

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/qluke/genshin-builds/internal/config"
)

// Local mode serves the Function URL handler over plain HTTP for manual
// testing: POST the request JSON to /.
func main() {
	h, err := newHandler()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	addr := strings.TrimSpace(os.Getenv(config.EnvAddr))
	if addr == "" {
		addr = ":9000"
	}

	http.Handle("/", functionHandler(h.MaterialsFunction))

	fmt.Printf("materials function listening on %s\n", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type functionURLFunc func(context.Context, events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error)

// functionHandler adapts a Function URL handler to net/http. A handler error
// is written as a 500.
func functionHandler(fn functionURLFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := fn(r.Context(), events.LambdaFunctionURLRequest{Body: string(body)})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			http.Error(w, "materials failed", http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}
