// Command bundleweb serves image bundling over HTTP, along with the sprites it
// generates.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	imagebundle "badc0de.net/pkg/go-imagebundle"
	"badc0de.net/pkg/go-imagebundle/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for bundleweb")
	requestTimeout = flag.Duration("request_timeout", 30*time.Second, "time allowed for a single request")

	bundleFlags = imagebundle.SetupFlags(flag.CommandLine)
)

func newRouter(b *imagebundle.Bundler) (http.Handler, error) {
	h, err := web.NewHandler(b)
	if err != nil {
		return nil, err
	}
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	return handlers.CombinedLoggingHandler(os.Stderr,
		handlers.CompressHandler(
			http.TimeoutHandler(r, *requestTimeout, "request timed out"))), nil
}

func main() {
	flagutil.Parse()

	cfg, err := bundleFlags.Config()
	if err != nil {
		glog.Fatalf("configuration: %v", err)
	}
	b, err := imagebundle.New(cfg)
	if err != nil {
		glog.Fatal(err)
	}
	r, err := newRouter(b)
	if err != nil {
		glog.Fatal(err)
	}

	glog.Infof("serving sprites from %s below %s, listening on %s", cfg.SpriteDir, cfg.PublicRoots[0], *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, r))
}
