// Package cli provides the interactive gophforum command-line client.
//
// It wires configuration and the gRPC API client into a REPL. Typical
// flow: log in, browse threads, read and reply, search, edit the profile.
//
// Commands:
//   - register / login / logout
//   - threads [page], show <thread>, search <query>
//   - new, reply <thread>, edit <message>, rm <message>
//   - profile [user], bio, avatar <file>, role <user> <member|admin>
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
