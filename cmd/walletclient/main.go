// Command walletclient is the holder-side wallet agent. It keeps a durable
// registration in a local Badger database, polls the service for the redacted
// wallet status, and reports whether the paid booking feature is available.
//
// Usage:
//
//	walletclient register -name "Amadou Diallo" -phone +224620000001
//	walletclient status
//	walletclient watch
//	walletclient logout
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"worldpath-wallet/pkg/logger"
	"worldpath-wallet/pkg/session"

	"github.com/shopspring/decimal"
)

func main() {
	addr := flag.String("addr", envOr("WPW_ADDR", "http://localhost:5000"), "wallet service base URL")
	dataDir := flag.String("data", defaultDataDir(), "local session database directory")
	interval := flag.Duration("interval", 10*time.Second, "status poll interval")
	minBalance := flag.String("min-balance", "1000.00", "paid-feature balance threshold")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	log := logger.New(envOr("WPW_LOG_LEVEL", "warn"), true)

	threshold, err := decimal.NewFromString(*minBalance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "walletclient: invalid -min-balance %q\n", *minBalance)
		os.Exit(2)
	}

	store, err := session.OpenBadgerStore(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "walletclient: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	api := session.NewAPIClient(*addr, 10*time.Second, log)
	sess := session.New(api, store, session.Config{
		PollInterval: *interval,
		MinBalance:   threshold,
	}, log)

	ctx := context.Background()
	if err := sess.Resume(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "walletclient: resume: %v\n", err)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "register":
		err = register(ctx, sess, flag.Args()[1:])
	case "status":
		printSnapshot(sess.Snapshot(), sess.CanSubmitBooking())
	case "watch":
		err = watch(ctx, sess)
	case "logout":
		err = sess.Logout()
		if err == nil {
			fmt.Println("logged out, local session cleared")
		}
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "walletclient: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: walletclient [-addr URL] [-data DIR] <command>

commands:
  register  create or adopt a wallet id and sync the profile
  status    print the current session snapshot
  watch     poll the service and print status changes until interrupted
  logout    clear the local registration (server wallet is kept)`)
}

func register(ctx context.Context, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	wallet := fs.String("wallet", "", "existing wallet id (empty = generate)")
	name := fs.String("name", "", "holder name (required)")
	phone := fs.String("phone", "", "holder phone (required)")
	_ = fs.Parse(args)
	if *name == "" || *phone == "" {
		return fmt.Errorf("register: -name and -phone are required")
	}

	walletID, err := sess.Register(ctx, *wallet, *name, *phone)
	if err != nil {
		return err
	}
	fmt.Printf("registered as %s\n", walletID)
	printSnapshot(sess.Snapshot(), sess.CanSubmitBooking())
	return nil
}

func watch(ctx context.Context, sess *session.Session) error {
	snap := sess.Snapshot()
	if snap.State != session.StateSyncing {
		return fmt.Errorf("no registration; run register first")
	}

	sess.Start(ctx)
	defer sess.Stop()

	fmt.Printf("watching %s (interrupt to stop)\n", snap.WalletID)
	printSnapshot(snap, sess.CanSubmitBooking())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	last := snap
	for {
		select {
		case <-quit:
			return nil
		case <-ticker.C:
			cur := sess.Snapshot()
			if statusChanged(last, cur) {
				printSnapshot(cur, sess.CanSubmitBooking())
				last = cur
			}
			if cur.State == session.StateUnregistered {
				return fmt.Errorf("server no longer recognises this wallet")
			}
		}
	}
}

func statusChanged(a, b session.Snapshot) bool {
	if a.State != b.State {
		return true
	}
	if (a.Status == nil) != (b.Status == nil) {
		return true
	}
	if a.Status == nil {
		return false
	}
	return a.Status.Authorized != b.Status.Authorized ||
		a.Status.Suspended != b.Status.Suspended ||
		!a.Status.Balance.Equal(b.Status.Balance)
}

func printSnapshot(snap session.Snapshot, canBook bool) {
	fmt.Printf("state: %s\n", snap.State)
	if snap.WalletID != "" {
		fmt.Printf("wallet: %s (%s)\n", snap.WalletID, snap.Name)
	}
	if snap.Status != nil {
		fmt.Printf("balance: %s  authorized: %v  suspended: %v  can-book: %v\n",
			snap.Status.Balance.StringFixed(2), snap.Status.Authorized, snap.Status.Suspended, canBook)
	}
	if !snap.LastSynced.IsZero() {
		fmt.Printf("last synced: %s\n", snap.LastSynced.Format(time.RFC1123))
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".walletclient"
	}
	return filepath.Join(home, ".walletclient")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
