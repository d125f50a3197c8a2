package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/papercomputeco/specgraph/cmd/specgraph/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir  string
		origDir string
		out     *bytes.Buffer
	)

	execute := func(args ...string) error {
		cmd := configcmder.NewConfigCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "specgraph-config-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// A local .specgraph dir takes precedence over the home dir.
		err = os.MkdirAll(filepath.Join(tmpDir, ".specgraph"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			Expect(execute("set", "events.provider", "kafka")).To(Succeed())

			_, err := os.Stat(filepath.Join(tmpDir, ".specgraph", "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("events.provider"))
		})

		It("rejects unknown keys", func() {
			Expect(execute("set", "invalid_key", "value")).NotTo(Succeed())
		})

		It("requires exactly two arguments", func() {
			Expect(execute("set", "events.provider")).NotTo(Succeed())
		})

		It("rejects zero arguments", func() {
			Expect(execute("set")).NotTo(Succeed())
		})

		It("rejects invalid uint values", func() {
			Expect(execute("set", "impact.max_depth", "not-a-number")).NotTo(Succeed())
		})

		It("rejects unknown event providers", func() {
			Expect(execute("set", "events.provider", "carrier-pigeon")).NotTo(Succeed())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(execute("set", "events.topic", "specs")).To(Succeed())

			out.Reset()
			Expect(execute("get", "events.topic")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("specs"))
		})

		It("rejects unknown keys", func() {
			Expect(execute("get", "invalid_key")).NotTo(Succeed())
		})

		It("requires exactly one argument", func() {
			Expect(execute("get")).NotTo(Succeed())
		})
	})

	Describe("list subcommand", func() {
		It("lists every key", func() {
			Expect(execute("list")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("storage.root"))
			Expect(out.String()).To(ContainSubstring("events.topic"))
		})

		It("rejects any arguments", func() {
			Expect(execute("list", "extra")).NotTo(Succeed())
		})
	})
})
