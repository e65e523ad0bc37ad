package pos

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/cafepos/pkg/enums/station"
	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

const (
	DefaultPollInterval = 10 * time.Second
	DefaultMaxBackoff   = 2 * time.Minute
	DefaultRate         = "120-M"
	DefaultTimezone     = "Asia/Ho_Chi_Minh"
)

// Options carries the station service settings read from configuration.
type Options struct {
	APIURL              string
	APITimeout          time.Duration
	StationID           string
	Poll                PollOptions
	DeselectTableOnCash bool
	Location            *time.Location
	TemplatesFile       string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	MongoURL            string
	MongoName           string
	NATSURL             string
	HTTPRate            string
	TracingEndpoint     string
}

type PollOptions struct {
	Interval   time.Duration
	Jitter     time.Duration
	MaxBackoff time.Duration
}

func DefaultOptions() Options {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.Local
	}
	return Options{
		APIURL:     "http://localhost:3000",
		APITimeout: api.DefaultTimeout,
		StationID:  station.Stations.Cashier.Name,
		Poll: PollOptions{
			Interval:   DefaultPollInterval,
			Jitter:     time.Second,
			MaxBackoff: DefaultMaxBackoff,
		},
		DeselectTableOnCash: true,
		Location:            loc,
		MongoName:           "cafepos",
		HTTPRate:            DefaultRate,
	}
}

// OptionsFromConfig reads Options from cfg, keeping defaults for absent keys.
func OptionsFromConfig(cfg *aqm.Config) (Options, error) {
	opts := DefaultOptions()
	if cfg == nil {
		return opts, nil
	}

	opts.APIURL = cfg.GetStringOrDef("api.url", opts.APIURL)
	opts.StationID = strings.ToLower(cfg.GetStringOrDef("station.id", opts.StationID))
	opts.TemplatesFile = cfg.GetStringOrDef("schedule.templates_file", "")
	opts.RedisAddr = cfg.GetStringOrDef("redis.addr", "")
	opts.RedisPassword = cfg.GetStringOrDef("redis.password", "")
	opts.MongoURL = cfg.GetStringOrDef("db.mongo.url", "")
	opts.MongoName = cfg.GetStringOrDef("db.mongo.name", opts.MongoName)
	opts.NATSURL = cfg.GetStringOrDef("nats.url", "")
	opts.HTTPRate = cfg.GetStringOrDef("http.rate", opts.HTTPRate)
	opts.TracingEndpoint = cfg.GetStringOrDef("tracing.endpoint", "")

	if station.ByName(opts.StationID) == nil {
		return opts, fmt.Errorf("unknown station %q", opts.StationID)
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"api.timeout", &opts.APITimeout},
		{"poll.interval", &opts.Poll.Interval},
		{"poll.jitter", &opts.Poll.Jitter},
		{"poll.max_backoff", &opts.Poll.MaxBackoff},
	}
	for _, d := range durations {
		raw, ok := cfg.GetString(d.key)
		if !ok || raw == "" {
			continue
		}
		value, err := time.ParseDuration(raw)
		if err != nil || value < 0 {
			return opts, fmt.Errorf("invalid %s %q", d.key, raw)
		}
		*d.target = value
	}

	if raw, ok := cfg.GetString("pos.deselect_on_cash"); ok && raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid pos.deselect_on_cash %q", raw)
		}
		opts.DeselectTableOnCash = value
	}

	if raw, ok := cfg.GetString("redis.db"); ok && raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid redis.db %q", raw)
		}
		opts.RedisDB = value
	}

	if raw, ok := cfg.GetString("schedule.timezone"); ok && raw != "" {
		loc, err := time.LoadLocation(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid schedule.timezone %q: %w", raw, err)
		}
		opts.Location = loc
	}

	return opts, nil
}
