// Command walletctl is the operator console for the wallet service. It
// drives the admin REST API: list and edit wallets, authorize holders,
// inject balance, and review the inquiry queue and ledgers.
//
// Usage:
//
//	walletctl -addr http://localhost:5000 login -u admin
//	walletctl users
//	walletctl create -name "Fatou Barry" -phone +224620000002 -balance 500.00
//	walletctl authorize -wallet WP-ABC234 -on
//	walletctl inject -wallet WP-ABC234 -amount 1000
//	walletctl ledger -wallet WP-ABC234
//	walletctl inquiries
//
// The session token from login is read from WPW_ADMIN_TOKEN.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

type client struct {
	addr  string
	token string
	httpc *http.Client
}

func main() {
	addr := flag.String("addr", envOr("WPW_ADDR", "http://localhost:5000"), "wallet service base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	c := &client{
		addr:  strings.TrimRight(*addr, "/"),
		token: os.Getenv("WPW_ADMIN_TOKEN"),
		httpc: &http.Client{Timeout: 15 * time.Second},
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	switch cmd {
	case "login":
		err = c.login(args)
	case "users":
		err = c.listUsers()
	case "create":
		err = c.createUser(args)
	case "update":
		err = c.updateUser(args)
	case "delete":
		err = c.deleteUser(args)
	case "authorize":
		err = c.authorize(args)
	case "inject":
		err = c.inject(args)
	case "ledger":
		err = c.ledger(args)
	case "inquiries":
		err = c.inquiries()
	case "inquiry-status":
		err = c.inquiryStatus(args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "walletctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: walletctl [-addr URL] <command> [flags]

commands:
  login           obtain an operator token (prints export line)
  users           list all wallets
  create          create a wallet
  update          edit a wallet record
  delete          remove a wallet
  authorize       flip the authorized flag
  inject          apply a signed balance delta
  ledger          show a wallet's balance history
  inquiries       list booking inquiries
  inquiry-status  set an inquiry's lifecycle state`)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *client) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("u", "admin", "operator username")
	_ = fs.Parse(args)

	fmt.Fprintf(os.Stderr, "password for %s: ", *user)
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	var out struct {
		Token  string `json:"token"`
		Expiry int64  `json:"expiry"`
	}
	err = c.do(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": *user,
		"password": strings.TrimSpace(password),
	}, &out)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "token valid until %s\n", time.Unix(out.Expiry, 0).Format(time.RFC1123))
	fmt.Printf("export WPW_ADMIN_TOKEN=%s\n", out.Token)
	return nil
}

type walletRow struct {
	WalletID    string `json:"walletId"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Balance     string `json:"balance"`
	Authorized  bool   `json:"authorized"`
	Suspended   bool   `json:"suspended"`
	LastUpdated string `json:"lastUpdated"`
}

func (c *client) listUsers() error {
	var wallets []walletRow
	if err := c.do(http.MethodGet, "/api/v1/admin/users", nil, &wallets); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WALLET\tNAME\tPHONE\tBALANCE\tAUTH\tSUSP\tUPDATED")
	for _, w := range wallets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%v\t%v\t%s\n",
			w.WalletID, w.Name, w.Phone, w.Balance, w.Authorized, w.Suspended, w.LastUpdated)
	}
	return tw.Flush()
}

func (c *client) createUser(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet id (empty = generate)")
	name := fs.String("name", "", "holder name")
	phone := fs.String("phone", "", "holder phone")
	balance := fs.String("balance", "0.00", "starting balance")
	unauthorized := fs.Bool("unauthorized", false, "create without authorization")
	_ = fs.Parse(args)

	authorized := !*unauthorized
	body := map[string]any{
		"name":       *name,
		"phone":      *phone,
		"balance":    *balance,
		"authorized": authorized,
	}
	if *wallet != "" {
		body["walletId"] = *wallet
	}

	var created walletRow
	if err := c.do(http.MethodPost, "/api/v1/admin/users", body, &created); err != nil {
		return err
	}
	fmt.Printf("created %s\n", created.WalletID)
	return c.listUsers()
}

func (c *client) updateUser(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet id (required)")
	name := fs.String("name", "", "new name")
	phone := fs.String("phone", "", "new phone")
	balance := fs.String("balance", "", "absolute balance")
	suspend := fs.String("suspend", "", "true|false")
	_ = fs.Parse(args)
	if *wallet == "" {
		return fmt.Errorf("update: -wallet is required")
	}

	body := map[string]any{}
	if *name != "" {
		body["name"] = *name
	}
	if *phone != "" {
		body["phone"] = *phone
	}
	if *balance != "" {
		body["balance"] = *balance
	}
	if *suspend != "" {
		body["suspended"] = *suspend == "true"
	}

	var updated walletRow
	if err := c.do(http.MethodPut, "/api/v1/admin/users/"+*wallet, body, &updated); err != nil {
		return err
	}
	return c.listUsers()
}

func (c *client) deleteUser(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet id (required)")
	_ = fs.Parse(args)
	if *wallet == "" {
		return fmt.Errorf("delete: -wallet is required")
	}

	if err := c.do(http.MethodDelete, "/api/v1/admin/users/"+*wallet, nil, nil); err != nil {
		return err
	}
	return c.listUsers()
}

func (c *client) authorize(args []string) error {
	fs := flag.NewFlagSet("authorize", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet id (required)")
	on := fs.Bool("on", false, "grant authorization")
	off := fs.Bool("off", false, "revoke authorization")
	_ = fs.Parse(args)
	if *wallet == "" || *on == *off {
		return fmt.Errorf("authorize: -wallet plus exactly one of -on/-off required")
	}

	var updated walletRow
	err := c.do(http.MethodPost, "/api/v1/admin/authorize", map[string]any{
		"walletId": *wallet,
		"status":   *on,
	}, &updated)
	if err != nil {
		return err
	}
	return c.listUsers()
}

func (c *client) inject(args []string) error {
	fs := flag.NewFlagSet("inject", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet id (required)")
	amount := fs.String("amount", "", "signed delta, e.g. 1000 or -250.50 (required)")
	_ = fs.Parse(args)
	if *wallet == "" || *amount == "" {
		return fmt.Errorf("inject: -wallet and -amount are required")
	}

	var updated walletRow
	err := c.do(http.MethodPost, "/api/v1/admin/update-balance", map[string]any{
		"walletId": *wallet,
		"amount":   *amount,
	}, &updated)
	if err != nil {
		return err
	}
	fmt.Printf("%s balance now %s\n", updated.WalletID, updated.Balance)
	return c.listUsers()
}

func (c *client) ledger(args []string) error {
	fs := flag.NewFlagSet("ledger", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet id (required)")
	_ = fs.Parse(args)
	if *wallet == "" {
		return fmt.Errorf("ledger: -wallet is required")
	}

	var entries []struct {
		Delta        string `json:"delta"`
		BalanceAfter string `json:"balanceAfter"`
		Source       string `json:"source"`
		Actor        string `json:"actor"`
		CreatedAt    string `json:"createdAt"`
	}
	if err := c.do(http.MethodGet, "/api/v1/admin/users/"+*wallet+"/ledger", nil, &entries); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DELTA\tAFTER\tSOURCE\tACTOR\tAT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Delta, e.BalanceAfter, e.Source, e.Actor, e.CreatedAt)
	}
	return tw.Flush()
}

func (c *client) inquiries() error {
	var items []struct {
		ID        string `json:"id"`
		WalletID  string `json:"walletId"`
		Name      string `json:"name"`
		Country   string `json:"country"`
		Plan      string `json:"plan"`
		Status    string `json:"status"`
		CreatedAt string `json:"createdAt"`
	}
	if err := c.do(http.MethodGet, "/api/v1/admin/inquiries", nil, &items); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWALLET\tNAME\tCOUNTRY\tPLAN\tSTATUS\tAT")
	for _, i := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i.ID, i.WalletID, i.Name, i.Country, i.Plan, i.Status, i.CreatedAt)
	}
	return tw.Flush()
}

func (c *client) inquiryStatus(args []string) error {
	fs := flag.NewFlagSet("inquiry-status", flag.ExitOnError)
	id := fs.String("id", "", "inquiry id (required)")
	status := fs.String("status", "", "Pending|Active (required)")
	_ = fs.Parse(args)
	if *id == "" || *status == "" {
		return fmt.Errorf("inquiry-status: -id and -status are required")
	}

	return c.do(http.MethodPut, "/api/v1/admin/inquiries/"+*id+"/status", map[string]string{
		"status": *status,
	}, nil)
}

// do performs a request and unwraps the {data, ...} envelope into out.
func (c *client) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.addr+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	var env struct {
		Data      json.RawMessage `json:"data"`
		ErrorCode string          `json:"error_code"`
		Message   string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %s", env.ErrorCode, env.Message)
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
