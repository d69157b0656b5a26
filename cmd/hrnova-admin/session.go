package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	redisadapter "github.com/hrnova/ui-api/internal/adapters/redis"
	"github.com/hrnova/ui-api/internal/bootstrap"
	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/session"
)

// credentialPrefix namespaces the ambient CLI session keys in Redis so they
// never collide with server-side session records.
const credentialPrefix = "hrnova_admin:"

func buildSessionManager(cmdCtx *commandContext) (*session.Manager, func(), error) {
	provider, err := bootstrap.BuildIdentityProvider(cmdCtx.Config.Auth, cmdCtx.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build identity provider: %w", err)
	}

	redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	mgr := session.NewManager(session.Options{
		Provider:    provider,
		Credentials: redisadapter.NewCredentialStore(redisClient, credentialPrefix),
		Roles:       bootstrap.RoleMapperFromConfig(cmdCtx.Config.Auth),
		Logger:      cmdCtx.Logger,
	})
	cleanup := func() {
		_ = redisClient.Close() //nolint:errcheck // nothing actionable on CLI teardown
	}
	return mgr, cleanup, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	user := fs.String("user", "", "identifier to sign in with")
	password := fs.String("password", "", "secret; prompted for when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("login: -user is required")
	}

	secret := *password
	if secret == "" {
		fmt.Fprintf(os.Stdout, "Password for %s: ", *user)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		secret = strings.TrimRight(line, "\r\n")
	}

	mgr, cleanup, err := buildSessionManager(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	identity, err := mgr.Login(cmdCtx.Ctx, *user, secret)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Logged in as %s (%s)\n", identity.Email, identity.Role)
	printModules(identity.Role)
	return nil
}

func runWhoami(cmdCtx *commandContext, _ []string) error {
	mgr, cleanup, err := buildSessionManager(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	mgr.Bootstrap(cmdCtx.Ctx)
	snap := mgr.Snapshot()
	if !snap.IsAuthenticated {
		fmt.Fprintln(os.Stdout, "Not logged in.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%s %s <%s>\nRole: %s\n",
		snap.User.FirstName, snap.User.LastName, snap.User.Email, snap.User.Role)
	printModules(snap.User.Role)
	return nil
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	mgr, cleanup, err := buildSessionManager(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	mgr.Bootstrap(cmdCtx.Ctx)
	mgr.Logout(cmdCtx.Ctx)
	fmt.Fprintln(os.Stdout, "Logged out.")
	return nil
}

func printModules(role domainauth.Role) {
	mods := domainauth.DefaultPolicy().ModulesFor(role)
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, string(m))
	}
	fmt.Fprintf(os.Stdout, "Modules: %s\n", strings.Join(names, ", "))
}
