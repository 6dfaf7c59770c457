// Package cli implements devicectl, a one-shot admin command over the
// device registry.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/devicekeeper/internal/cryptox"
	"github.com/dmitrijs2005/devicekeeper/internal/server/models"
	"github.com/dmitrijs2005/devicekeeper/internal/server/services"
)

// ErrUsage is returned for unknown commands or wrong argument counts.
var ErrUsage = errors.New("usage")

const usage = `Usage: devicectl [flags] <command> [args]

Commands:
  list [owner]                          list devices, optionally of one owner
  get <name>                            show one device
  add <name> <ip> [port] [owner]        register a device
  reconnect <name> <ip> [port]          record a new address for a device
  remove <name>                         delete a device
  key <name>                            print the device encryption key
  check-password <email>                verify an owner password
  hash-password                         print a bcrypt hash for the user table
`

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

type App struct {
	devices *services.DeviceService
	users   *services.UserService
	out     io.Writer
}

func NewApp(ds *services.DeviceService, us *services.UserService, out io.Writer) *App {
	return &App{devices: ds, users: us, out: out}
}

// Run executes the command in args (positional arguments only).
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprint(a.out, usage)
		return nil
	case "list", "l":
		if len(rest) > 1 {
			return a.usageError(cmd)
		}
		owner := ""
		if len(rest) == 1 {
			owner = rest[0]
		}
		return a.list(ctx, owner)
	case "get":
		if len(rest) != 1 {
			return a.usageError(cmd)
		}
		return a.get(ctx, rest[0])
	case "add":
		if len(rest) < 2 || len(rest) > 4 {
			return a.usageError(cmd)
		}
		return a.add(ctx, rest)
	case "reconnect":
		if len(rest) < 2 || len(rest) > 3 {
			return a.usageError(cmd)
		}
		port := ""
		if len(rest) == 3 {
			port = rest[2]
		}
		return a.reconnect(ctx, rest[0], rest[1], port)
	case "remove", "rm":
		if len(rest) != 1 {
			return a.usageError(cmd)
		}
		return a.remove(ctx, rest[0])
	case "key":
		if len(rest) != 1 {
			return a.usageError(cmd)
		}
		return a.key(ctx, rest[0])
	case "check-password":
		if len(rest) != 1 {
			return a.usageError(cmd)
		}
		return a.checkPassword(ctx, rest[0])
	case "hash-password":
		return a.hashPassword()
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) usageError(cmd string) error {
	fmt.Fprint(a.out, usage)
	return fmt.Errorf("%w: wrong arguments for %s", ErrUsage, cmd)
}

func (a *App) printDevices(devices ...*models.Device) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tIP\tPORT\tLAST CONNECTION\tOWNER")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.IP, dash(d.ServerPort), dash(d.LastConnection), dash(d.UserAssociated))
	}
	_ = w.Flush()
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// deviceError names the device in not-found errors; other errors pass
// through unchanged.
func deviceError(name string, err error) error {
	if services.IsNotFound(err) {
		return fmt.Errorf("device %q: %w", name, err)
	}
	return err
}

func (a *App) list(ctx context.Context, owner string) error {
	devices, err := a.devices.List(ctx, owner)
	if err != nil {
		return err
	}
	a.printDevices(devices...)
	return nil
}

func (a *App) get(ctx context.Context, name string) error {
	d, err := a.devices.Get(ctx, name)
	if err != nil {
		return deviceError(name, err)
	}
	a.printDevices(d)
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	d := &models.Device{Name: args[0], IP: args[1]}
	if len(args) > 2 {
		d.ServerPort = args[2]
	}
	if len(args) > 3 {
		d.UserAssociated = args[3]
	}

	stored, err := a.devices.Register(ctx, d)
	if err != nil {
		return err
	}
	a.printDevices(stored)
	return nil
}

func (a *App) reconnect(ctx context.Context, name, ip, port string) error {
	d, err := a.devices.Reconnect(ctx, name, ip, port)
	if err != nil {
		return deviceError(name, err)
	}
	a.printDevices(d)
	return nil
}

func (a *App) remove(ctx context.Context, name string) error {
	if err := a.devices.Remove(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "removed %s\n", name)
	return nil
}

func (a *App) key(ctx context.Context, name string) error {
	key, err := a.devices.EncryptionKey(ctx, name)
	if err != nil {
		return deviceError(name, err)
	}
	fmt.Fprintln(a.out, key)
	return nil
}

func (a *App) checkPassword(ctx context.Context, email string) error {
	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(pw)

	if a.users.CheckPassword(ctx, email, string(pw)) {
		fmt.Fprintln(a.out, "password ok")
		return nil
	}
	return errors.New("password mismatch")
}

func (a *App) hashPassword() error {
	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(pw)

	hash, err := cryptox.HashPassword(string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, hash)
	return nil
}
