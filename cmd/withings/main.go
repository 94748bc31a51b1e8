package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gravitational/kingpin"
	"github.com/gravitational/trace"
	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"

	"github.com/withkit/withings/api"
	"github.com/withkit/withings/auth"
	"github.com/withkit/withings/auth/state"
	"github.com/withkit/withings/client"
	"github.com/withkit/withings/flatten"
	"github.com/withkit/withings/lib"
	"github.com/withkit/withings/lib/logger"
)

func main() {
	logger.Init()
	app := kingpin.New("withings", "CLI client for the Withings health-data API.")

	configPath := app.Flag("config", "TOML config file path").
		Short('c').
		Default("withings.toml").
		String()
	debug := app.Flag("debug", "Enable verbose logging to stderr").
		Short('d').
		Bool()

	app.Command("configure", "Prints an example .TOML configuration file.")
	app.Command("version", "Prints withings version and exits.")

	app.Command("authorize", "Runs the OAuth2 authorization-code flow and stores the user credentials.")

	fetch := newFetchFlags(app)

	selectedCmd, err := app.Parse(os.Args[1:])
	if err != nil {
		lib.Bail(err)
	}

	switch selectedCmd {
	case "configure":
		fmt.Print(exampleConfig)
	case "version":
		lib.PrintVersion(app.Name, Version)
	default:
		conf, err := loadAndSetup(*configPath, *debug)
		if err != nil {
			lib.Bail(err)
		}
		if selectedCmd == "authorize" {
			err = runAuthorize(conf)
		} else {
			err = fetch.run(selectedCmd, conf)
		}
		if err != nil {
			lib.Bail(err)
		}
	}
}

func loadAndSetup(configPath string, debug bool) (*Config, error) {
	conf, err := LoadConfig(configPath)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	logConfig := conf.Log
	if debug {
		logConfig.Severity = "debug"
	}
	if err := logger.Setup(logConfig); err != nil {
		return nil, trace.Wrap(err)
	}
	if debug {
		logger.Standard().Debugf("DEBUG logging enabled")
	}

	return conf, nil
}

func runAuthorize(conf *Config) error {
	ctx := context.Background()

	reg, err := conf.Registration()
	if err != nil {
		return trace.Wrap(err)
	}
	if err := reg.Store(conf.Withings.DataDir); err != nil {
		return trace.Wrap(err)
	}

	fmt.Println("Open the following URL in your browser and authorize the application:")
	fmt.Println()
	fmt.Println("  " + reg.AuthCodeURL())
	fmt.Println()

	prompt := promptui.Prompt{
		Label: "Authorization code from the redirect URL",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return trace.BadParameter("the authorization code must not be empty")
			}
			return nil
		},
	}
	code, err := prompt.Run()
	if err != nil {
		return trace.Wrap(err)
	}

	creds, err := client.NewAuthorizer(*reg).Exchange(ctx, strings.TrimSpace(code), "")
	if err != nil {
		return trace.Wrap(err)
	}

	userState := state.NewUserFileState(conf.Withings.DataDir, creds.UserID)
	if err := userState.PutCredentials(ctx, creds); err != nil {
		return trace.Wrap(err)
	}

	logger.Standard().Infof("Stored credentials for user %s, access token valid until %v", creds.UserID, creds.ExpiresAt)
	return nil
}

// fetchFlags carries the flags shared by all the data-fetch subcommands.
type fetchFlags struct {
	userID     *string
	start      *int64
	end        *int64
	lastUpdate *int64
	offset     *int64
	fields     *[]string
	category   *int
	types      *[]int64
	typeNames  *[]string
	signalID   *int64
	save       *bool
	table      *bool
}

func newFetchFlags(app *kingpin.Application) *fetchFlags {
	f := &fetchFlags{}

	f.userID = app.Flag("user", "Withings user ID of the stored credentials").String()
	f.start = app.Flag("start", "Start date, Unix timestamp").Int64()
	f.end = app.Flag("end", "End date, Unix timestamp").Int64()
	f.lastUpdate = app.Flag("last-update", "Only data updated after this Unix timestamp").Int64()
	f.offset = app.Flag("offset", "Pagination offset").Int64()
	f.fields = app.Flag("field", "Data field to request, can be repeated").Strings()
	f.category = app.Flag("category", "Measure category: 1 real measures, 2 user objectives").Int()
	f.types = app.Flag("type", "Measure type code, can be repeated").Int64List()
	f.typeNames = app.Flag("type-name", "Measure type name, can be repeated").Strings()
	f.signalID = app.Flag("signal", "Heart signal ID").Int64()
	f.save = app.Flag("save", "Persist the response body to the user folder").Bool()
	f.table = app.Flag("table", "Print the flattened response as a table").Bool()

	app.Command("activity", "Fetch daily activity summaries.")
	app.Command("intraday", "Fetch high-frequency activity data.")
	app.Command("meas", "Fetch body measurements.")
	app.Command("workouts", "Fetch workout summaries.")
	app.Command("heart-list", "List heart signal records.")
	app.Command("heart-get", "Fetch a single heart signal with ECG data.")
	app.Command("sleep-get", "Fetch high-frequency sleep data.")
	app.Command("sleep-summary", "Fetch nightly sleep summaries.")

	return f
}

func (f *fetchFlags) run(cmd string, conf *Config) error {
	ctx := context.Background()

	if *f.userID == "" {
		return trace.BadParameter("missing required flag --user")
	}

	apiClient, err := f.newAPIClient(ctx, conf)
	if err != nil {
		return trace.Wrap(err)
	}

	var opts []api.RequestOption
	if *f.save {
		opts = append(opts, api.SaveResponse())
	}

	var body []byte
	switch cmd {
	case "activity":
		body, err = apiClient.GetActivity(ctx, api.ActivityParams{
			StartDate:  *f.start,
			EndDate:    *f.end,
			LastUpdate: *f.lastUpdate,
			Offset:     *f.offset,
			DataFields: *f.fields,
		}, opts...)
	case "intraday":
		body, err = apiClient.GetIntradayActivity(ctx, api.IntradayActivityParams{
			StartDate:  *f.start,
			EndDate:    *f.end,
			DataFields: *f.fields,
		}, opts...)
	case "meas":
		body, err = apiClient.GetMeas(ctx, api.MeasParams{
			StartDate:  *f.start,
			EndDate:    *f.end,
			LastUpdate: *f.lastUpdate,
			Offset:     *f.offset,
			Category:   *f.category,
			Types:      toInts(*f.types),
			TypeNames:  *f.typeNames,
		}, opts...)
	case "workouts":
		body, err = apiClient.GetWorkouts(ctx, api.WorkoutsParams{
			StartDate:  *f.start,
			EndDate:    *f.end,
			LastUpdate: *f.lastUpdate,
			Offset:     *f.offset,
			DataFields: *f.fields,
		}, opts...)
	case "heart-list":
		body, err = apiClient.ListHeart(ctx, api.HeartListParams{
			StartDate: *f.start,
			EndDate:   *f.end,
			Offset:    *f.offset,
		}, opts...)
	case "heart-get":
		body, err = apiClient.GetHeart(ctx, api.HeartGetParams{
			SignalID: *f.signalID,
		}, opts...)
	case "sleep-get":
		body, err = apiClient.GetSleep(ctx, api.SleepGetParams{
			StartDate:  *f.start,
			EndDate:    *f.end,
			DataFields: *f.fields,
		}, opts...)
	case "sleep-summary":
		body, err = apiClient.GetSleepSummary(ctx, api.SleepSummaryParams{
			StartDate:  *f.start,
			EndDate:    *f.end,
			LastUpdate: *f.lastUpdate,
			Offset:     *f.offset,
			DataFields: *f.fields,
		}, opts...)
	default:
		return trace.BadParameter("unknown command %q", cmd)
	}
	if err != nil {
		return trace.Wrap(err)
	}

	if *f.table {
		return trace.Wrap(printTable(body))
	}

	fmt.Println(string(body))
	return nil
}

func (f *fetchFlags) newAPIClient(ctx context.Context, conf *Config) (*api.Client, error) {
	reg, err := conf.Registration()
	if err != nil {
		return nil, trace.Wrap(err)
	}

	provider, err := auth.NewRefreshingCredentialsProvider(ctx, auth.RefreshingCredentialsProviderConfig{
		State:     state.NewUserFileState(conf.Withings.DataDir, *f.userID),
		Refresher: client.NewAuthorizer(*reg),
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}

	apiClient, err := api.NewClient(api.ClientConfig{
		Credentials: provider,
		DataDir:     conf.Withings.DataDir,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return apiClient, nil
}

func printTable(body []byte) error {
	table, err := flatten.Document(body)
	if err != nil {
		return trace.Wrap(err)
	}

	writer := tablewriter.NewWriter(os.Stdout)
	writer.SetHeader(table.Columns)
	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for i, column := range table.Columns {
			if value, ok := row[column]; ok && value != nil {
				cells[i] = fmt.Sprint(value)
			}
		}
		writer.Append(cells)
	}
	writer.Render()
	return nil
}

func toInts(values []int64) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
