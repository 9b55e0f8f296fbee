// Klingnet naming layer daemon and inspection tool.
//
// Usage:
//
//	namesd [flags] <command> [args]
//	namesd --help
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/Klingon-tech/klingnet-names/config"
	"github.com/Klingon-tech/klingnet-names/internal/log"
	"github.com/Klingon-tech/klingnet-names/internal/metrics"
	"github.com/Klingon-tech/klingnet-names/internal/naming"
	"github.com/Klingon-tech/klingnet-names/internal/storage"
	"github.com/Klingon-tech/klingnet-names/internal/tree"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

const version = "0.1.0"

func main() {
	cfg, flags, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flags.Version {
		fmt.Printf("namesd %s\n", version)
		return
	}
	if flags.Help {
		config.PrintUsage()
		return
	}
	if len(flags.Args) == 0 {
		config.PrintUsage()
		os.Exit(1)
	}

	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	types.SetAddressHRP(config.HRPFor(cfg.Network))
	rules := config.RulesFor(cfg.Network)

	cmd := flags.Args[0]
	args := flags.Args[1:]

	// hash works offline; everything else opens the index.
	if cmd == "hash" {
		cmdHash(args)
		return
	}

	db, names, committer := openIndex(cfg, rules)
	defer db.Close()

	switch cmd {
	case "phase":
		cmdPhase(names, rules, args)
	case "show":
		cmdShow(names, args)
	case "proof":
		cmdProof(committer, args)
	case "root":
		cmdRoot(committer)
	case "stats":
		cmdStats(names, cfg)
	case "serve":
		cmdServe(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func openIndex(cfg *config.Config, rules *config.NamingRules) (storage.DB, *naming.Store, *tree.Committer) {
	path := filepath.Join(cfg.NetworkDataDir(), "names")
	db, err := storage.NewBadger(path)
	if err != nil {
		fatal("open index: %v", err)
	}
	names, err := naming.NewStore(db)
	if err != nil {
		db.Close()
		fatal("open index: %v", err)
	}
	return db, names, tree.NewCommitter(db, names, rules)
}

func resolveName(args []string) (string, types.NameHash) {
	if len(args) != 1 {
		fatal("expected exactly one name argument")
	}
	name, err := naming.Canonicalize(args[0])
	if err != nil {
		fatal("%v", err)
	}
	return name, naming.HashName(name)
}

func cmdHash(args []string) {
	name, nameHash := resolveName(args)
	fmt.Printf("%s %s\n", name, nameHash)
}

func cmdPhase(names *naming.Store, rules *config.NamingRules, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fatal("usage: phase <name> [height]")
	}
	_, nameHash := resolveName(args[:1])
	ns, err := names.GetState(nameHash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println(naming.PhaseNone)
			return
		}
		fatal("%v", err)
	}

	// The schedule is pure height arithmetic, so the phase can be asked
	// for any height. Default to the height of the name's last change.
	height := ns.Height
	if ns.Renewal > rules.RenewalWindow {
		height = ns.Renewal - rules.RenewalWindow
	}
	if len(args) == 2 {
		h, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fatal("bad height %q", args[1])
		}
		height = h
	}
	fmt.Println(naming.PhaseOf(ns, height, rules))
}

func cmdShow(names *naming.Store, args []string) {
	_, nameHash := resolveName(args)
	ns, err := names.GetState(nameHash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fatal("no state recorded for name")
		}
		fatal("%v", err)
	}
	out, err := json.MarshalIndent(ns, "", "  ")
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(string(out))
}

func cmdProof(committer *tree.Committer, args []string) {
	_, nameHash := resolveName(args)
	proof, err := committer.Prove(nameHash)
	if err != nil {
		fatal("%v", err)
	}
	out, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(string(out))
}

func cmdRoot(committer *tree.Committer) {
	root, err := committer.Root(^uint64(0))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fatal("no tree commitment recorded")
		}
		fatal("%v", err)
	}
	fmt.Println(root)
}

func cmdStats(names *naming.Store, cfg *config.Config) {
	var total, registered, revoked, claimed int
	var locked uint64
	err := names.ForEachState(func(ns *naming.NameState) error {
		total++
		switch {
		case ns.IsRevoked():
			revoked++
		case ns.Registered():
			registered++
			locked += ns.Value
		}
		if ns.Claimed {
			claimed++
		}
		return nil
	})
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("network:    %s\n", cfg.Network)
	fmt.Printf("names:      %d\n", total)
	fmt.Printf("registered: %d\n", registered)
	fmt.Printf("revoked:    %d\n", revoked)
	fmt.Printf("claimed:    %d\n", claimed)
	fmt.Printf("locked:     %d\n", locked)
}

func cmdServe(cfg *config.Config) {
	log.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
	go func() {
		if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
			log.Fatal().Err(err).Msg("metrics server")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Run 'namesd --help' for usage.")
}
