// pricewatch is a small console client for the price catalog. It keeps
// a cache-first bundle client running against an API instance and
// prints the current prices for a scope on demand, which makes it
// handy for checking what front desks will see after an adjustment.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/config"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/pricecache"
)

func main() {
	_ = godotenv.Load()

	base := flag.String("api", "http://localhost:8080", "base URL of the API")
	scope := flag.String("scope", string(model.ScopeSpecialty), "scope to list (laboratory|specialty)")
	tier := flag.String("plan", string(model.TierBase), "plan tier to price against")
	interval := flag.Duration("interval", 2*time.Minute, "background revalidation interval")
	watch := flag.Duration("watch", 0, "reprint on this interval instead of exiting")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	var cache pricecache.Cache = pricecache.NewMemoryCache()
	if rdb := config.NewRedisClient(); rdb != nil {
		cache = pricecache.NewRedisCache(rdb, time.Hour)
	}

	client := pricecache.New(
		pricecache.NewHTTPFetcher(*base, nil),
		cache,
		pricecache.WithInterval(*interval),
		pricecache.WithLogger(logger),
	)
	defer client.Close()

	print := func() {
		if client.Loading() {
			fmt.Println("(loading)")
			return
		}
		if err := client.Err(); err != nil {
			logger.Warn().Err(err).Msg("last refresh failed; showing cached data")
		}
		names := client.Options(model.Scope(*scope))
		for _, name := range names {
			fmt.Printf("%-40s %10d\n", name, client.PriceFor(model.Scope(*scope), name, model.Tier(*tier)))
		}
		if len(names) == 0 {
			fmt.Println("(no prices)")
		}
	}

	// Give the first revalidation a moment before the initial print.
	time.Sleep(500 * time.Millisecond)
	print()

	if *watch <= 0 {
		return
	}
	for range time.Tick(*watch) {
		print()
	}
}
