package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stagecraft/compose"
	"stagecraft/datastore"
	"stagecraft/modules"
	"stagecraft/payload"
	"stagecraft/payloads"
	"stagecraft/session"
	"stagecraft/shared"
)

func payloadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payloads",
		Short: "List the built-in payload catalog",
		Run: func(cmd *cobra.Command, args []string) {
			rows := make([][]string, 0)
			for _, e := range payloads.Catalog() {
				conv := e.Def.Convention
				if conv == "" {
					conv = "-"
				}
				rows = append(rows, []string{
					e.Def.Name,
					e.Def.Kind.String(),
					e.Def.Arch,
					string(e.Handler.ConnectionType()),
					conv,
					fmt.Sprintf("%d", len(e.Def.Raw)),
				})
			}
			printTable([]string{"Name", "Kind", "Arch", "Conn", "Convention", "Bytes"}, rows)
		},
	}
}

func generateCmd() *cobra.Command {
	var (
		options  string
		outPath  string
		format   string
		encoder  string
		nop      string
		sledSize int
	)
	cmd := &cobra.Command{
		Use:   "generate <payload>",
		Short: "Generate a payload buffer with variables substituted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok := payloads.Find(args[0])
			if !ok {
				return fmt.Errorf("unknown payload %q", args[0])
			}

			store := datastore.New()
			if err := store.ImportOptions(options); err != nil {
				return err
			}

			p, err := payload.New(entry.Def, entry.Handler, store)
			if err != nil {
				return err
			}
			p.SetRegistry(modules.Default)

			start := time.Now()
			res, err := compose.Encoded(p, compose.Options{
				Encoder:  encoder,
				Nop:      nop,
				SledSize: sledSize,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			sum := sha256.Sum256(res.Buf)
			logrus.Infof("generated %s: %d bytes in %s (sha256 %s)",
				p.Name(), len(res.Buf), shared.FormatDuration(elapsed), hex.EncodeToString(sum[:8]))
			if res.Encoder != "" {
				logrus.Infof("encoder: %s", res.Encoder)
			}
			if res.Nop != "" {
				logrus.Infof("nop sled: %s (%d bytes)", res.Nop, sledSize)
			}

			recordBuild(p, res, format, sum[:], elapsed, store)

			switch format {
			case shared.FormatHex:
				if outPath != "" {
					return os.WriteFile(outPath, []byte(hexDump(res.Buf)), 0644)
				}
				fmt.Print(hexDump(res.Buf))
			default:
				if outPath == "" {
					return fmt.Errorf("raw output needs --out (refusing to write shellcode to a terminal)")
				}
				return os.WriteFile(outPath, res.Buf, 0644)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&options, "options", "", `payload options, e.g. "LHOST=10.0.0.5 LPORT=4444"`)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", shared.FormatRaw, "output format (raw, hex)")
	cmd.Flags().StringVarP(&encoder, "encoder", "e", "", "force a specific encoder")
	cmd.Flags().StringVar(&nop, "nop", "", "force a specific NOP generator")
	cmd.Flags().IntVarP(&sledSize, "nops", "n", 0, "prepend a NOP sled of this many bytes")
	return cmd
}

// recordBuild persists a build row. Failures only warn; generation
// output matters more than bookkeeping.
func recordBuild(p *payload.Payload, res *compose.Result, format string, sum []byte, elapsed time.Duration, store *datastore.Store) {
	db, err := session.Open(flagDBPath)
	if err != nil {
		logrus.Warnf("build not recorded: %v", err)
		return
	}
	defer db.Close()

	opts := make(map[string]string)
	for _, k := range store.Keys() {
		opts[k] = store.Get(k)
	}
	build := &session.Build{
		BuildID:   shared.GenerateBuildID(),
		Payload:   p.Name(),
		Arch:      p.Arch(),
		Format:    format,
		Encoder:   res.Encoder,
		Nop:       res.Nop,
		Size:      int64(len(res.Buf)),
		SHA256:    hex.EncodeToString(sum),
		BuildTime: elapsed,
		Options:   opts,
	}
	if err := db.SaveBuild(build); err != nil {
		logrus.Warnf("build not recorded: %v", err)
	}
}

func encodersCmd() *cobra.Command {
	var arch string
	cmd := &cobra.Command{
		Use:   "encoders",
		Short: "List encoders compatible with an architecture",
		Run: func(cmd *cobra.Command, args []string) {
			rows := make([][]string, 0)
			for i, e := range modules.Default.Encoders(arch) {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1), e.Name, archList(e.Encoder.Arch()),
				})
			}
			printTable([]string{"Rank", "Name", "Arch"}, rows)
		},
	}
	cmd.Flags().StringVarP(&arch, "arch", "a", shared.ArchX86, "target architecture")
	return cmd
}

func nopsCmd() *cobra.Command {
	var arch string
	cmd := &cobra.Command{
		Use:   "nops",
		Short: "List NOP generators compatible with an architecture",
		Run: func(cmd *cobra.Command, args []string) {
			rows := make([][]string, 0)
			for i, n := range modules.Default.Nops(arch) {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1), n.Name, archList(n.Nop.Arch()),
				})
			}
			printTable([]string{"Rank", "Name", "Arch"}, rows)
		},
	}
	cmd.Flags().StringVarP(&arch, "arch", "a", shared.ArchX86, "target architecture")
	return cmd
}

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := session.Open(flagDBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			sessions, err := db.Sessions()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					s.ID, s.Codename, s.Payload, s.RemoteAddr,
					shared.FormatDuration(s.Age()),
				})
			}
			printTable([]string{"ID", "Codename", "Payload", "Remote", "Age"}, rows)
			return nil
		},
	}
}

func buildsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builds",
		Short: "List recorded payload builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := session.Open(flagDBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			builds, err := db.Builds()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(builds))
			for _, b := range builds {
				enc := b.Encoder
				if enc == "" {
					enc = "-"
				}
				rows = append(rows, []string{
					b.BuildID, b.Payload, b.Arch, enc,
					fmt.Sprintf("%d", b.Size), b.SHA256[:16],
				})
			}
			printTable([]string{"Build", "Payload", "Arch", "Encoder", "Bytes", "SHA256"}, rows)
			return nil
		},
	}
}

func archList(archs []string) string {
	if len(archs) == 0 {
		return "any"
	}
	out := archs[0]
	for _, a := range archs[1:] {
		out += ", " + a
	}
	return out
}
