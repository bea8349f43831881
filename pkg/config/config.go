package config

//nolint:lll // better readability
type CliArgs struct {
	LogLevel        string // sets the log level (zap log level values)
	LogFormat       string // text vs json
	LogFile         string // log file to write to
	LogConfig       string // log config file (yaml) with per logger levels
	WaitForServices string // duration to wait for other services to be ready
	WaitForData     string // duration to wait for data to be available
	PublishInterval string // min duration between two display value publications
	MsgLogFile      string // record samples and refuel commands to this file
	HTTPAddr        string // listen address of the display feed (empty: disabled)
	PitDispatch     string // pit command dispatcher (log, nats, wamp)
	NatsURL         string // NATS server url
	WampURL         string // WAMP router url
	WampRealm       string // WAMP realm
	WampPublish     bool   // publish display values to WAMP
	WatchConfig     bool   // reload fuel settings when the config file changes
}

var cliArgs = NewCliArgs()

func DefaultCliArgs() *CliArgs {
	return cliArgs
}

func NewCliArgs() *CliArgs {
	return &CliArgs{
		WaitForServices: "10s",
		WaitForData:     "1s",
		PublishInterval: "1s",
		PitDispatch:     "log",
		WampRealm:       "racehud",
		WatchConfig:     true,
	}
}
