package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"tambohub/internal/composer"
	"tambohub/internal/controller"
	"tambohub/internal/geodata"
	"tambohub/internal/mapping"
	"tambohub/internal/mapview"
	"tambohub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

func main() {
	global := flag.NewFlagSet("tambohub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	geoDir := global.String("geo", "data/geo", "GeoJSON layer directory")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &apiClient{
		base: *baseURL,
		http: &http.Client{Timeout: 15 * time.Second},
	}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *tokenPath, sub, args[2:])
	case "map":
		handleMap(ctx, client, *tokenPath, *geoDir, sub, args[2:])
	case "households":
		handleHouseholds(ctx, client, sub, args[2:])
	case "mappings":
		handleMappings(ctx, client, sub)
	case "sync":
		handleSync(sub, args[2:])
	case "notify":
		handleNotify(*baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *apiClient, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp authResponse
		if err := client.doJSON(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *email == "" || *password == "" {
			log.Fatal("username, email, and password are required")
		}

		payload := map[string]string{"username": *username, "email": *email, "password": *password}
		var resp authResponse
		if err := client.doJSON(ctx, http.MethodPost, "/auth/register", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("registered and logged in")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	default:
		log.Fatal("usage: tambohub auth <login|register|logout>")
	}
}

func handleMap(ctx context.Context, client *apiClient, tokenPath, geoDir, sub string, args []string) {
	switch sub {
	case "view":
		fs := flag.NewFlagSet("map view", flag.ExitOnError)
		query := fs.String("q", "", "mapping name search")
		category := fs.String("type", "All", "category filter: All|Household|Commercial|Institution")
		_ = fs.Parse(args)

		endpoint := "/map/features"
		qv := url.Values{}
		if *query != "" {
			qv.Set("q", *query)
		}
		qv.Set("type", *category)
		endpoint += "?" + qv.Encode()

		var resp struct {
			Buildings []mapview.Joined `json:"buildings"`
		}
		if err := client.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
			log.Fatalf("view failed: %v", err)
		}

		fmt.Printf("%-8s %-14s %s\n", "FID", "STYLE", "LABEL")
		for _, b := range resp.Buildings {
			label := b.Label
			if label == "" {
				label = "-"
			}
			fmt.Printf("%-8d %-14s %s\n", b.Feature.FID(), b.Token, label)
		}
		fmt.Printf("%d buildings\n", len(resp.Buildings))
	case "suggest":
		fs := flag.NewFlagSet("map suggest", flag.ExitOnError)
		query := fs.String("q", "", "search query")
		_ = fs.Parse(args)

		var resp struct {
			Suggestions []string `json:"suggestions"`
		}
		endpoint := "/map/suggest?q=" + url.QueryEscape(*query)
		if err := client.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
			log.Fatalf("suggest failed: %v", err)
		}
		for _, s := range resp.Suggestions {
			fmt.Println(s)
		}
	case "click":
		fs := flag.NewFlagSet("map click", flag.ExitOnError)
		fid := fs.Int64("fid", -1, "feature id of the clicked building")
		_ = fs.Parse(args)
		if *fid < 0 {
			log.Fatal("fid is required")
		}

		client.token, _ = readToken(tokenPath)
		runClick(ctx, client, geoDir, *fid)
	case "hover":
		fs := flag.NewFlagSet("map hover", flag.ExitOnError)
		fid := fs.Int64("fid", -1, "feature id of the hovered building")
		_ = fs.Parse(args)
		if *fid < 0 {
			log.Fatal("fid is required")
		}

		store := mustLoadStore(geoDir)
		ctrl := controller.New(store, client, client)
		hover, err := ctrl.Hover(ctx, geodata.FID(*fid))
		if err != nil {
			log.Fatalf("hover failed: %v", err)
		}
		for _, line := range hover.Tooltip {
			fmt.Println(line)
		}
		fmt.Printf("style: %s / %s\n", hover.Style.Color, hover.Style.FillColor)
	default:
		log.Fatal("usage: tambohub map <view|suggest|click|hover>")
	}
}

// runClick drives the interaction flow for one building: composer for
// unclassified features, household detail or delete confirmation for
// classified ones.
func runClick(ctx context.Context, client *apiClient, geoDir string, fid int64) {
	store := mustLoadStore(geoDir)
	ctrl := controller.New(store, client, client)

	res, err := ctrl.Click(ctx, geodata.FID(fid))
	if err != nil {
		log.Fatalf("click failed: %v", err)
	}

	in := bufio.NewScanner(os.Stdin)

	switch res.Kind {
	case controller.ActionShowHousehold:
		fmt.Printf("Household #%s (%s)\n", res.Household.HouseholdNumber, res.Household.Zone)
		fmt.Printf("Head: %s | Status: %s\n", res.Household.Head(), res.Household.Status)
		for _, r := range res.Household.Residents {
			fmt.Printf("  - %s %s (%s)\n", r.Firstname, r.Lastname, r.Role)
		}
	case controller.ActionConfirmDelete:
		fmt.Printf("Delete mapping %q? [y/N]: ", res.Label)
		if !confirm(in) {
			fmt.Println("kept")
			return
		}
		if err := ctrl.Delete(ctx, fid); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Println("mapping deleted")
	case controller.ActionOpenComposer:
		draft, ok := promptComposer(ctx, in, client)
		if !ok {
			draft.Reset()
			fmt.Println("cancelled")
			return
		}
		created, err := ctrl.Submit(ctx, draft, fid)
		if err != nil {
			log.Fatalf("mapping failed: %v", err)
		}
		fmt.Printf("mapping added: %s\n", created.MappingName)
	}
}

// promptComposer walks the three category sub-forms on stdin. The
// returned draft may be incomplete; the submit guard decides.
func promptComposer(ctx context.Context, in *bufio.Scanner, client *apiClient) (*composer.Draft, bool) {
	draft := composer.NewDraft()

	fmt.Print("Residential? [y/N]: ")
	if confirm(in) {
		households, err := client.ListHouseholds(ctx)
		if err != nil {
			log.Fatalf("load households: %v", err)
		}
		options := composer.Options(households)

		fmt.Print("Search household number (empty for all): ")
		in.Scan()
		draft.SetHouseholdQuery(strings.TrimSpace(in.Text()))

		matches := composer.FilterOptions(options, draft.HouseholdQuery())
		if len(matches) == 0 {
			fmt.Println("no household numbers found")
		}
		for _, o := range matches {
			fmt.Printf("  [%d] Household #%s — Head: %s\n", o.ID, o.Number, o.Head)
		}
		fmt.Print("Household id: ")
		in.Scan()
		if id, err := strconv.ParseInt(strings.TrimSpace(in.Text()), 10, 64); err == nil {
			for _, o := range matches {
				if o.ID == id {
					draft.SelectHousehold(o)
					break
				}
			}
		}
	}

	fmt.Print("Commercial? [y/N]: ")
	if confirm(in) {
		draft.Toggle(composer.CategoryCommercial)
		fmt.Print("Business name: ")
		in.Scan()
		draft.SetBusinessName(in.Text())
	}

	fmt.Print("Institutional? [y/N]: ")
	if confirm(in) {
		draft.Toggle(composer.CategoryInstitutional)
		for i, t := range mapping.InstitutionTypes {
			fmt.Printf("  [%d] %s\n", i+1, t)
		}
		fmt.Print("Institution type: ")
		in.Scan()
		idx, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && idx >= 1 && idx <= len(mapping.InstitutionTypes) {
			fmt.Print("Institution name: ")
			in.Scan()
			if err := draft.SetInstitution(mapping.InstitutionTypes[idx-1], in.Text()); err != nil {
				fmt.Println(err)
			}
		}
	}

	if !draft.CanSubmit() {
		fmt.Println("no building types selected")
		return draft, false
	}

	fmt.Printf("Total buildings selected: %d. Submit? [y/N]: ", draft.ActiveCount())
	if !confirm(in) {
		return draft, false
	}
	return draft, true
}

func handleHouseholds(ctx context.Context, client *apiClient, sub string, args []string) {
	switch sub {
	case "list":
		households, err := client.ListHouseholds(ctx)
		if err != nil {
			log.Fatalf("list failed: %v", err)
		}
		for _, h := range households {
			fmt.Printf("[%d] Household #%s — Head: %s (%s, %s)\n",
				h.ID, h.HouseholdNumber, h.Head(), h.Zone, h.Status)
		}
	case "show":
		fs := flag.NewFlagSet("households show", flag.ExitOnError)
		id := fs.Int64("id", -1, "household id")
		_ = fs.Parse(args)
		if *id < 0 {
			log.Fatal("id is required")
		}

		h, err := client.GetHousehold(ctx, *id)
		if err != nil {
			log.Fatalf("show failed: %v", err)
		}
		if h == nil {
			log.Fatal("household not found")
		}
		printJSON(h)
	default:
		log.Fatal("usage: tambohub households <list|show>")
	}
}

func handleMappings(ctx context.Context, client *apiClient, sub string) {
	switch sub {
	case "list":
		mappings, err := client.ListMappings(ctx)
		if err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(mappings)
	default:
		log.Fatal("usage: tambohub mappings list")
	}
}

func handleSync(sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP sync server address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runSyncTCP(*addr, *pretty); err != nil {
				log.Printf("[sync] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	default:
		log.Fatal("usage: tambohub sync listen")
	}
}

func handleNotify(baseURL, sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("notify subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: tambohub notify subscribe")
	}
}

func runSyncTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[notify] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func mustLoadStore(geoDir string) *geodata.Store {
	store, err := geodata.Load(geoDir)
	if err != nil {
		log.Fatalf("load geo layers from %s: %v", geoDir, err)
	}
	return store
}

func confirm(in *bufio.Scanner) bool {
	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.tambohub-token.json"
	}
	return filepath.Join(home, ".tambohub", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("tambohub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  map view|suggest|click|hover")
	fmt.Println("  households list|show")
	fmt.Println("  mappings list")
	fmt.Println("  sync listen")
	fmt.Println("  notify subscribe")
}

// apiClient talks to the tambohub API and satisfies the controller's
// mapping and household services.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

func (c *apiClient) ListMappings(ctx context.Context) ([]models.Mapping, error) {
	var resp struct {
		Mappings []models.Mapping `json:"mappings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/mappings", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Mappings, nil
}

func (c *apiClient) CreateMapping(ctx context.Context, req composer.CreateRequest) (*models.Mapping, error) {
	var resp struct {
		Mapping *models.Mapping `json:"mapping"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/mappings", req, &resp); err != nil {
		return nil, err
	}
	return resp.Mapping, nil
}

func (c *apiClient) DeleteMapping(ctx context.Context, fid int64) error {
	endpoint := "/mappings/" + strconv.FormatInt(fid, 10)
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *apiClient) ListHouseholds(ctx context.Context) ([]models.Household, error) {
	var resp struct {
		Households []models.Household `json:"households"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/households", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Households, nil
}

// GetHousehold maps a 404 to (nil, nil): a missing household is a
// normal outcome of the click flow, not an error.
func (c *apiClient) GetHousehold(ctx context.Context, id int64) (*models.Household, error) {
	var resp struct {
		Household *models.Household `json:"household"`
	}
	endpoint := "/households/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		var herr *httpError
		if errors.As(err, &herr) && herr.status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return resp.Household, nil
}

func (c *apiClient) doJSON(ctx context.Context, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return &httpError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
