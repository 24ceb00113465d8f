// Command server runs the resp-kv TCP server: it speaks RESP2 over plain
// TCP and understands GET, SET, and DEL.
//
// Reads config, builds the shared store, listens, and runs the accept
// loop under signal-driven shutdown.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/akashmaji946/resp-kv/internal/config"
	"github.com/akashmaji946/resp-kv/internal/logging"
	"github.com/akashmaji946/resp-kv/internal/server"
	"github.com/akashmaji946/resp-kv/internal/store"
)

func main() {
	override, configPath, err := config.FlagOverride(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "resp-kv:", err)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath, override)
	if err != nil {
		fmt.Fprintln(os.Stderr, "resp-kv:", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Debug)
	defer log.Sync()

	logBootDiagnostics(log)

	backing := buildTable(cfg)
	handler := server.NewHandler(backing, log)

	srv, err := server.New(cfg.Address, handler, log)
	if err != nil {
		log.Error("failed to listen", "address", cfg.Address, "error", err)
		os.Exit(1)
	}

	log.Info("resp-kv starting",
		"address", cfg.Address,
		"table", string(cfg.Table),
		"concurrency", string(cfg.Concurrency),
	)
	srv.ServeUntilSignal()
	log.Info("resp-kv stopped")
}

// buildTable constructs the store.Map the handler dispatches against,
// per the table-kind/concurrency-kind combination the config selects.
// The linear-probing table has no striped variant (striping applies only
// to the chained table), so that combination falls back to the coarse
// wrapper.
func buildTable(cfg config.Config) server.Store {
	var base store.Map[string, []byte]
	switch cfg.Table {
	case config.TableLinearProbing:
		base = store.NewLinearProbingMap[string, []byte](cfg.LoadFactor, store.StringHash, cfg.InitialCapacity)
	default:
		base = store.NewChainedMap[string, []byte](cfg.LoadFactor, store.StringHash, cfg.InitialCapacity)
	}

	switch cfg.Concurrency {
	case config.ConcurrencyStriped:
		if cfg.Table == config.TableChained {
			return store.NewStripedMap[string, []byte](cfg.LoadFactor, store.StringHash, cfg.InitialCapacity, cfg.StripeCount)
		}
		return store.NewCoarseMap[string, []byte](base)
	default:
		return store.NewCoarseMap[string, []byte](base)
	}
}

// logBootDiagnostics logs a one-time snapshot of host memory at startup,
// using the same gopsutil/v4/mem.VirtualMemory() stats an INFO command
// would report, as a boot-time log line instead of a client-facing
// command.
func logBootDiagnostics(log *logging.Logger) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Debug("could not read host memory stats", "error", err)
		return
	}
	log.Info("host memory at startup",
		"total_bytes", vm.Total,
		"available_bytes", vm.Available,
		"used_percent", vm.UsedPercent,
	)
}
