package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// addSourceFlags registers the corpus retrieval flags shared by every
// command that loads the corpus
func addSourceFlags(fs *pflag.FlagSet) {
	def := model.DefaultConfig()

	fs.String("source-url", def.Source.URL, "corpus source URL")
	fs.Duration("timeout", def.HTTP.Timeout, "HTTP timeout for the corpus download")
	fs.String("ua", def.HTTP.UserAgent, "HTTP User-Agent")
	fs.Bool("no-cache", false, "disable cache (force fresh fetch)")
	fs.String("cache-dir", def.Cache.Dir, "directory of the on-disk corpus cache")
	fs.Bool("respect-robots", def.HTTP.RespectRobots, "check robots.txt before fetching the corpus")
	fs.Bool("insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	fs.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	fs.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	fs.Int("sample-juz", 0, "medium tier: verse records used for juz questions (0 = all)")
	fs.Int("sample-page", 0, "medium tier: verse records used for page questions (0 = all)")
}

// applySourceFlags copies explicitly set source flags over cfg, so flags
// outrank env and config file values
func applySourceFlags(cmd *cobra.Command, cfg *model.Config) error {
	fs := cmd.Flags()

	if fs.Changed("source-url") {
		v, err := fs.GetString("source-url")
		if err != nil {
			return err
		}
		cfg.Source.URL = v
	}
	if fs.Changed("timeout") {
		v, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.HTTP.Timeout = v
	}
	if fs.Changed("ua") {
		v, err := fs.GetString("ua")
		if err != nil {
			return err
		}
		cfg.HTTP.UserAgent = v
	}
	if fs.Changed("no-cache") {
		v, err := fs.GetBool("no-cache")
		if err != nil {
			return err
		}
		cfg.Cache.Enabled = !v
	}
	if fs.Changed("cache-dir") {
		v, err := fs.GetString("cache-dir")
		if err != nil {
			return err
		}
		cfg.Cache.Dir = v
	}
	if fs.Changed("respect-robots") {
		v, err := fs.GetBool("respect-robots")
		if err != nil {
			return err
		}
		cfg.HTTP.RespectRobots = v
	}
	if fs.Changed("insecure") {
		v, err := fs.GetBool("insecure")
		if err != nil {
			return err
		}
		cfg.HTTP.InsecureTLS = v
	}
	if fs.Changed("http-proxy") {
		v, err := fs.GetString("http-proxy")
		if err != nil {
			return err
		}
		cfg.HTTP.HTTPProxy = v
	}
	if fs.Changed("https-proxy") {
		v, err := fs.GetString("https-proxy")
		if err != nil {
			return err
		}
		cfg.HTTP.HTTPSProxy = v
	}
	if fs.Changed("sample-juz") {
		v, err := fs.GetInt("sample-juz")
		if err != nil {
			return err
		}
		cfg.Generation.Sample.Juz = v
	}
	if fs.Changed("sample-page") {
		v, err := fs.GetInt("sample-page")
		if err != nil {
			return err
		}
		cfg.Generation.Sample.Page = v
	}

	return nil
}
