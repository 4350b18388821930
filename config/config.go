package config

import (
	"errors"
	"flag"
	"net"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	Addr         string
	DBUrl        string
	StoreKind    string // "sqlite" or "csv"
	CSVPath      string
	DataDir      string
	Timezone     string
	AdminKeyHash string
	RetryMax     int
	RetryMin     time.Duration
	RetryMaxWait time.Duration
	Debug        bool
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.DBUrl, "db-url", "rooster.sqlite", "path to SQLite3 DB file (default rooster.sqlite)")
	flag.StringVar(&cfg.StoreKind, "store", "sqlite", "response store backend: sqlite or csv (default sqlite)")
	flag.StringVar(&cfg.CSVPath, "csv-path", "responses.csv", "path to CSV response log when -store=csv")
	flag.StringVar(&cfg.DataDir, "data-dir", "data", "directory holding the schema CSV tables")
	flag.StringVar(&cfg.Timezone, "timezone", "Pacific/Auckland", "fallback IANA zone when the deadlines table has none")
	flag.StringVar(&cfg.AdminKeyHash, "admin-key-hash", "", "bcrypt hash of the admin export key")
	var retryMax uint
	flag.UintVar(&retryMax, "retry-max", 4, "max append retries against the response store")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.RetryMax = int(retryMax)
	cfg.RetryMin = 250 * time.Millisecond
	cfg.RetryMaxWait = 5 * time.Second

	if cfg.StoreKind != "sqlite" && cfg.StoreKind != "csv" {
		err = errors.New("invalid parameter -store: must be sqlite or csv")
		return
	}
	if cfg.AdminKeyHash == "" {
		err = errors.New("missing parameter -admin-key-hash")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
