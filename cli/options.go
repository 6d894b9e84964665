package cli

import (
	"os"
	"path/filepath"

	"github.com/velovis/velovis"
)

// Options represents command line options
type Options struct {
	Config  string `short:"c" long:"config" description:"client options YAML URL"`
	Verbose bool   `short:"v" long:"verbose" description:"debug logging"`
	velovis.ClientOptions

	Login    LoginCommand   `command:"login" description:"sign in"`
	Logout   struct{}       `command:"logout" description:"sign out"`
	WhoAmI   struct{}       `command:"whoami" description:"show the signed in user"`
	Products struct{}       `command:"products" description:"list products"`
	Cart     struct{}       `command:"cart" description:"show the cart"`
	CartAdd  CartAddCommand `command:"cart-add" description:"add a product to the cart"`
	Orders   struct{}       `command:"orders" description:"list orders"`
	Order    struct{}       `command:"order" description:"place an order from the cart"`
	Roles    struct{}       `command:"roles" description:"list roles (admin)"`
	Users    struct{}       `command:"users" description:"list users (admin)"`
}

// LoginCommand represents sign in arguments
type LoginCommand struct {
	Username string `long:"username" description:"user name" required:"true"`
	Password string `long:"password" description:"password" required:"true"`
}

// CartAddCommand represents cart-add arguments
type CartAddCommand struct {
	Slug     string `long:"slug" description:"product slug" required:"true"`
	Quantity int    `long:"quantity" description:"quantity" default:"1"`
}

// clientOptions merges the options file, environment and flags, flags win
func (o *Options) clientOptions(loaded *velovis.ClientOptions) *velovis.ClientOptions {
	ret := *loaded
	flagged := o.ClientOptions
	if flagged.BaseURL != "" {
		ret.BaseURL = flagged.BaseURL
	}
	if flagged.RefreshPath != "" {
		ret.RefreshPath = flagged.RefreshPath
	}
	if flagged.SignInPath != "" {
		ret.SignInPath = flagged.SignInPath
	}
	if flagged.Timeout > 0 {
		ret.Timeout = flagged.Timeout
	}
	if flagged.Session.StoreURL != "" {
		ret.Session.StoreURL = flagged.Session.StoreURL
	}
	if flagged.Session.Secure {
		ret.Session.Secure = true
	}
	if flagged.Session.EncryptionKey != "" {
		ret.Session.EncryptionKey = flagged.Session.EncryptionKey
	}
	if ret.Session.StoreURL == "" {
		ret.Session.StoreURL = defaultStoreURL()
	}
	ret.Init()
	return &ret
}

func defaultStoreURL() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".velovis", "session.json")
}
