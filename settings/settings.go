// Package settings provides the tagged-struct configuration used by
// the consensus core: struct tags describe key/default/category, read
// through gocore.Config() as the underlying key/value source.
package settings

import (
	"time"

	"github.com/ordishs/gocore"
)

// ChainParams holds the consensus-critical parameters that the
// difficulty engine and versionbits state machine are parameterized
// by. One instance per network (mainnet/testnet/regtest), following
// the per-network chaincfg-style params struct convention.
type ChainParams struct {
	// PowLimitBits is the compact-encoded minimum difficulty target
	// ("easiest" target a block may have).
	PowLimitBits uint32 `key:"pow_limit_bits" desc:"compact-encoded minimum difficulty target" category:"Consensus"`

	// PowTargetSpacing is the desired time between blocks.
	PowTargetSpacing time.Duration `key:"pow_target_spacing_seconds" default:"600" category:"Consensus"`

	// PowTargetTimespan is the window the legacy retarget averages
	// over (2 weeks on mainnet).
	PowTargetTimespan time.Duration `key:"pow_target_timespan_seconds" default:"1209600" category:"Consensus"`

	// PowAllowMinDifficultyBlocks is the testnet rule allowing a
	// min-difficulty block when no block has been found for
	// 2*PowTargetSpacing.
	PowAllowMinDifficultyBlocks bool `key:"pow_allow_min_difficulty_blocks" category:"Consensus"`

	// PowNoRetargeting disables difficulty retargeting entirely
	// (regtest).
	PowNoRetargeting bool `key:"pow_no_retargeting" category:"Consensus"`

	// CashHardForkActivationTime is the MTP threshold at which the
	// weighted-target (DAA) algorithm replaces the legacy+EDA
	// regimes.
	CashHardForkActivationTime uint32 `key:"cash_hard_fork_activation_time" category:"Consensus"`

	// RuleChangeActivationThreshold is the per-period vote count
	// needed to lock in a versionbits deployment.
	RuleChangeActivationThreshold uint32 `key:"rule_change_activation_threshold" default:"108" category:"Consensus"`

	// MinerConfirmationWindow is the versionbits period length in
	// blocks.
	MinerConfirmationWindow uint32 `key:"miner_confirmation_window" default:"144" category:"Consensus"`

	// Deployments maps a soft-fork bit to its per-network activation
	// window.
	Deployments map[string]Deployment `key:"deployments" category:"Consensus"`
}

// Deployment is one BIP9-style soft-fork window.
type Deployment struct {
	Bit       uint8
	StartTime uint32
	Timeout   uint32
}

// CacheSettings governs the layered coins-view cache's memory
// watermarks (§5 Resource policy).
type CacheSettings struct {
	DBPeakUsageFactor     float64 `key:"db_peak_usage_factor" default:"1.5" category:"Resources"`
	MinBlockCoinsDBUsage  int64   `key:"min_block_coinsdb_usage_mib" default:"450" category:"Resources"`
	MaxBlockCoinsDBUsage  int64   `key:"max_block_coinsdb_usage_mib" default:"16384" category:"Resources"`
}

// Settings aggregates every tunable this module consults.
type Settings struct {
	ChainParams ChainParams
	Cache       CacheSettings
}

// NewSettings builds a Settings populated from defaults overridable
// through gocore.Config(), a package-level Config() singleton. Two
// fields are not read from the config: DBPeakUsageFactor is always
// 1.5 and Deployments always starts empty.
func NewSettings() *Settings {
	cfg := gocore.Config()

	s := &Settings{
		ChainParams: ChainParams{
			PowLimitBits:                  uint32(cfg.GetInt("pow_limit_bits", 0x1d00ffff)),
			CashHardForkActivationTime:    uint32(cfg.GetInt("cash_hard_fork_activation_time", 0)),
			PowTargetSpacing:              time.Duration(cfg.GetInt("pow_target_spacing_seconds", 600)) * time.Second,
			PowTargetTimespan:             time.Duration(cfg.GetInt("pow_target_timespan_seconds", 1209600)) * time.Second,
			PowAllowMinDifficultyBlocks:   cfg.GetBool("pow_allow_min_difficulty_blocks", false),
			PowNoRetargeting:              cfg.GetBool("pow_no_retargeting", false),
			RuleChangeActivationThreshold: uint32(cfg.GetInt("rule_change_activation_threshold", 108)),
			MinerConfirmationWindow:       uint32(cfg.GetInt("miner_confirmation_window", 144)),
			Deployments:                   map[string]Deployment{},
		},
		Cache: CacheSettings{
			DBPeakUsageFactor:    1.5,
			MinBlockCoinsDBUsage: int64(cfg.GetInt("min_block_coinsdb_usage_mib", 450)),
			MaxBlockCoinsDBUsage: int64(cfg.GetInt("max_block_coinsdb_usage_mib", 16384)),
		},
	}

	return s
}

// DifficultyAdjustmentInterval is the number of blocks between legacy
// retargets: PowTargetTimespan / PowTargetSpacing.
func (p *ChainParams) DifficultyAdjustmentInterval() int64 {
	return int64(p.PowTargetTimespan / p.PowTargetSpacing)
}
