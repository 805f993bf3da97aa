package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"paylink/internal/checkoutform"
)

// Options lets callers replace the process-level collaborators.
type Options struct {
	Out    io.Writer
	Logger *zap.Logger
	// Opener is used unless --no-open is given. Defaults to the system URL handler.
	Opener checkoutform.Opener
	// Schedule overrides the status polling offsets.
	Schedule []time.Duration
}

type app struct {
	v    *viper.Viper
	opts Options
}

// NewRootCmd builds the paylink command tree. Flags can also be set through
// PAYLINK_* environment variables, e.g. PAYLINK_API.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Opener == nil {
		opts.Opener = checkoutform.SystemOpener{}
	}

	a := &app{v: viper.New(), opts: opts}

	root := &cobra.Command{
		Use:           "paylink",
		Short:         "Send checkout links to buyers and follow their payments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Out)

	pf := root.PersistentFlags()
	pf.String("api", "http://localhost:3000", "paylink server base URL")
	pf.String("contacts-file", defaultContactsFile(), "where recent buyers are remembered (empty to disable)")
	pf.Int("contacts-limit", checkoutform.DefaultContactLimit, "how many recent buyers to remember")
	pf.String("country-code", "39", "country code for phone numbers without one")
	pf.Duration("timeout", 20*time.Second, "HTTP timeout")

	a.v.SetEnvPrefix("PAYLINK")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlags(pf)

	root.AddCommand(a.sendCmd(), a.statusCmd(), a.contactsCmd())
	return root
}

func (a *app) api() *checkoutform.APIClient {
	return checkoutform.NewAPIClient(strings.TrimRight(a.v.GetString("api"), "/"), a.v.GetDuration("timeout"))
}

func (a *app) contacts() (*checkoutform.Contacts, error) {
	return checkoutform.OpenContacts(a.v.GetString("contacts-file"), a.v.GetInt("contacts-limit"))
}

func (a *app) opener(noOpen bool) checkoutform.Opener {
	if noOpen {
		return checkoutform.PrintOpener{W: a.opts.Out}
	}
	return a.opts.Opener
}

func defaultContactsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "paylink", "contacts.json")
}

// Execute runs the command line with process defaults.
func Execute(ctx context.Context, version string, logger *zap.Logger) error {
	root := NewRootCmd(Options{Logger: logger})
	root.Version = version
	return root.ExecuteContext(ctx)
}
