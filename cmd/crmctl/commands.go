package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/spf13/pflag"
)

var errNotLoggedIn = errors.New("not logged in, run crmctl login")

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// session restores the stored session and fails when there is none.
func (e *env) session(ctx context.Context) (crmsdk.Snapshot, error) {
	if err := e.store.Bootstrap(ctx); err != nil {
		return crmsdk.Snapshot{}, err
	}
	snap := e.store.Snapshot()
	if snap.Status != crmsdk.StatusAuthenticated {
		return crmsdk.Snapshot{}, errNotLoggedIn
	}
	return snap, nil
}

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := newFlags("login")
	username := fs.StringP("username", "u", "", "username")
	password := fs.StringP("password", "p", "", "password (read from stdin when empty)")
	otp := fs.String("otp", "", "TOTP code, when the account has one enrolled")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("--username is required")
	}
	if *password == "" {
		line, err := bufio.NewReader(e.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	err := e.store.Login(ctx, *username, *password, *otp)
	if crmsdk.IsOTPRequired(err) {
		return errors.New("this account uses a one time code, rerun with --otp")
	}
	if err != nil {
		return err
	}

	snap := e.store.Snapshot()
	fmt.Fprintf(e.stdout, "logged in as %s (%s) at %s\n",
		snap.Profile.User.Username, snap.Profile.Role.Name, snap.Business.Name)
	return nil
}

func runLogout(ctx context.Context, e *env, _ []string) error {
	// Bootstrap loads the refresh token; a dead session is still cleared.
	_ = e.store.Bootstrap(ctx)
	if err := e.store.Logout(ctx); err != nil {
		e.logger.Warn("server logout failed", "error", err)
	}
	fmt.Fprintln(e.stdout, "logged out")
	return nil
}

func runWhoami(ctx context.Context, e *env, _ []string) error {
	snap, err := e.session(ctx)
	if err != nil {
		return err
	}
	p := snap.Profile

	fmt.Fprintf(e.stdout, "user:     %s (%s)\n", p.User.PreferredName, p.User.Username)
	fmt.Fprintf(e.stdout, "business: %s\n", p.Business.Name)
	fmt.Fprintf(e.stdout, "role:     %s\n\n", p.Role.Name)
	return writeMatrix(e.stdout, &p.Role.Role)
}

func runRoles(ctx context.Context, e *env, _ []string) error {
	if _, err := e.session(ctx); err != nil {
		return err
	}
	roles, err := e.client.ListRoles(ctx, e.store.AccessToken())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSYSTEM\tPERMISSIONS")
	for _, r := range roles {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", r.ID, r.Name, r.System, summarize(r.Permissions))
	}
	return tw.Flush()
}

func runToggle(ctx context.Context, e *env, args []string) error {
	fs := newFlags("toggle")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return errors.New("usage: crmctl toggle <role-id> <resource> <action>")
	}
	roleID, resource := fs.Arg(0), fs.Arg(1)
	action, ok := rbac.ParseAction(fs.Arg(2))
	if !ok {
		return fmt.Errorf("unknown action %q", fs.Arg(2))
	}
	if !rbac.IsResource(resource) {
		return fmt.Errorf("unknown resource %q", resource)
	}

	if _, err := e.session(ctx); err != nil {
		return err
	}
	role, err := e.client.GetRole(ctx, e.store.AccessToken(), roleID)
	if err != nil {
		return err
	}

	editor := crmsdk.NewRoleEditor(e.store, *role)
	if err := editor.Toggle(resource, action); err != nil {
		return fmt.Errorf("%s: %w", role.Name, err)
	}
	saved, err := editor.Save(ctx)
	if err != nil {
		return err
	}

	state := "revoked"
	if p, ok := saved.Permission(resource); ok && p.Has(action) {
		state = "granted"
	}
	fmt.Fprintf(e.stdout, "%s: %s:%s %s\n", saved.Name, resource, action, state)
	return nil
}

func runCan(ctx context.Context, e *env, args []string) error {
	fs := newFlags("can")
	quiet := fs.BoolP("quiet", "q", false, "only set the exit status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: crmctl can <resource> <action>")
	}

	if _, err := e.session(ctx); err != nil {
		return err
	}
	res, err := e.client.Check(ctx, e.store.AccessToken(), fs.Arg(0), rbac.Action(fs.Arg(1)))
	if err != nil {
		return err
	}

	if !*quiet {
		verdict := "denied"
		if res.Allowed {
			verdict = "allowed"
		}
		fmt.Fprintf(e.stdout, "%s:%s %s (%s)\n", res.Resource, res.Action, verdict, res.Reason)
	}
	if !res.Allowed {
		return exitError{code: 1}
	}
	return nil
}

// writeMatrix prints the resource x action grid for role.
func writeMatrix(w io.Writer, role *rbac.Role) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"RESOURCE"}
	for _, a := range rbac.Actions() {
		header = append(header, strings.ToUpper(string(a)))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range rbac.Matrix() {
		cells := []string{row.Resource}
		for _, a := range row.Actions {
			mark := "-"
			if rbac.Can(role, row.Resource, a) {
				mark = "x"
			}
			cells = append(cells, mark)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func summarize(perms []rbac.Permission) string {
	if len(perms) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(perms))
	for _, p := range perms {
		actions := make([]string, len(p.Actions))
		for i, a := range p.Actions {
			actions[i] = string(a)
		}
		parts = append(parts, p.Resource+":"+strings.Join(actions, ","))
	}
	return strings.Join(parts, " ")
}
