// Package renderer flattens a contract template and the feature packages it
// imports into a single Go source file.
package renderer

import (
	"fmt"
	"strings"

	"github.com/Mindburn-Labs/vaultsdk/pkg/gitsource"
)

// Version of the renderer, reported in the autogen warning.
const Version = "3.0.0"

// AutogenWarning is the first line of every rendered contract.
var AutogenWarning = "Code auto-generated using Inception Smart Contract Renderer Version " + Version

const (
	ContractsPackage = "github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	VaultAPIPackage  = "github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

// AllowedImports are the packages a rendered contract may import. Anything
// else must be a feature package inside the template's module.
var AllowedImports = map[string]bool{
	ContractsPackage:                 true,
	VaultAPIPackage:                  true,
	"github.com/shopspring/decimal":  true,
	"encoding/json":                  true,
	"errors":                         true,
	"fmt":                            true,
	"math":                           true,
	"sort":                           true,
	"strconv":                        true,
	"strings":                        true,
	"time":                           true,
}

// TopLevelMetadata is the order metadata declarations are rendered in.
var TopLevelMetadata = []string{
	"API",
	"Version",
	"DisplayName",
	"Summary",
	"Explanation",
	"Tside",
	"SupervisedSmartContracts",
	"SupportedDenominations",
	"EventsTimezone",
	"ContractModuleImports",
	"GlobalParameters",
}

// Hooks follow the metadata in this order.
var Hooks = []string{
	"ActivationHook",
	"ConversionHook",
	"DeactivationHook",
	"DerivedParameterHook",
	"PostParameterChangeHook",
	"PostPostingHook",
	"PreParameterChangeHook",
	"PrePostingHook",
	"ScheduledEventHook",
}

// Config controls rendering.
type Config struct {
	HashingAlgorithm          string
	IncludeAutogenWarning     bool
	ModuleHeaderPrefix        string
	GitRepoRoot               string
	UseGit                    bool
	UseFullFilepathInHeaders  bool
	RenderMetadataAtTopOfFile bool
	ApplyFormatting           bool
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() Config {
	return Config{
		HashingAlgorithm:          gitsource.DefaultAlgorithm,
		IncludeAutogenWarning:     true,
		ModuleHeaderPrefix:        "Objects below have been imported from",
		UseGit:                    true,
		UseFullFilepathInHeaders:  true,
		RenderMetadataAtTopOfFile: true,
		ApplyFormatting:           true,
	}
}

func (c Config) validate() error {
	if err := gitsource.CheckAlgorithm(c.HashingAlgorithm); err != nil {
		return err
	}
	if strings.TrimSpace(c.ModuleHeaderPrefix) == "" {
		return fmt.Errorf("module header prefix must not be empty")
	}
	return nil
}

func orderIndex(names ...[]string) map[string]int {
	idx := map[string]int{}
	for _, list := range names {
		for _, n := range list {
			idx[n] = len(idx)
		}
	}
	return idx
}
