package reconcile

import (
	"testing"

	"portfolioanalyser/internal/model"
)

func identityTx(fund string, platform model.Platform, wrapper model.TaxWrapper) model.Transaction {
	tx := buy(date(2023, 1, 1), fund)
	tx.Platform = platform
	tx.TaxWrapper = wrapper
	return tx
}

// The same ticker on two platforms is a verified match; adding an agreeing
// ISIN lifts it to certainty.
func TestCrossReferenceTickerMatch(t *testing.T) {
	snap := Snapshot{
		Transactions: []model.Transaction{
			identityTx("Fundsmith Equity", model.PlatformFidelity, model.WrapperISA),
			identityTx("FUNDSMITH EQ I", model.PlatformInteractiveInvestor, model.WrapperISA),
		},
		Mappings: []model.TickerMapping{
			mapping("Fundsmith Equity", "FUND.L"),
			mapping("FUNDSMITH EQ I", "FUND.L"),
		},
	}

	report := Run(snap, model.DefaultUnitEffects())

	if len(report.VerifiedMatches) != 1 {
		t.Fatalf("VerifiedMatches = %+v, want exactly one", report.VerifiedMatches)
	}
	match := report.VerifiedMatches[0]
	if match.MatchType != "ticker" || match.Confidence != 0.95 {
		t.Errorf("match = %+v, want ticker match at 0.95", match)
	}
}

func TestCrossReferenceTickerAndIsin(t *testing.T) {
	a := identityTx("Fund A Name", model.PlatformFidelity, model.WrapperISA)
	a.Isin = "GB00B41YBW71"
	b := identityTx("Fund A Alt Name", model.PlatformInvestEngine, model.WrapperGIA)
	b.Isin = "GB00B41YBW71"

	snap := Snapshot{
		Transactions: []model.Transaction{a, b},
		Mappings: []model.TickerMapping{
			mapping("Fund A Name", "SAME.L"),
			mapping("Fund A Alt Name", "SAME.L"),
		},
	}

	report := Run(snap, model.DefaultUnitEffects())

	if len(report.VerifiedMatches) != 1 {
		t.Fatalf("VerifiedMatches = %+v, want exactly one", report.VerifiedMatches)
	}
	match := report.VerifiedMatches[0]
	if match.MatchType != "ticker+isin" || match.Confidence != 1.0 {
		t.Errorf("match = %+v, want ticker+isin at 1.0", match)
	}
}

// Without tickers, a shared SEDOL still verifies the pair at 0.98.
func TestCrossReferenceSedolMatch(t *testing.T) {
	a := identityTx("Fund Alpha", model.PlatformFidelity, model.WrapperISA)
	a.Sedol = "B41YBW7"
	b := identityTx("Fund Alpha Acc", model.PlatformInteractiveInvestor, model.WrapperISA)
	b.Sedol = "B41YBW7"

	report := Run(Snapshot{Transactions: []model.Transaction{a, b}}, model.DefaultUnitEffects())

	if len(report.VerifiedMatches) != 1 {
		t.Fatalf("VerifiedMatches = %+v, want exactly one", report.VerifiedMatches)
	}
	match := report.VerifiedMatches[0]
	if match.MatchType != "sedol" || match.Confidence != 0.98 {
		t.Errorf("match = %+v, want sedol match at 0.98", match)
	}
}

// A shared ISIN alone sits at 0.92: verified, but ranked below SEDOL.
func TestCrossReferenceIsinMatch(t *testing.T) {
	a := identityTx("Fund Beta", model.PlatformInvestEngine, model.WrapperISA)
	a.Isin = "IE00B3X0KQ86"
	b := identityTx("Fund Beta GIA", model.PlatformInvestEngine, model.WrapperGIA)
	b.Isin = "IE00B3X0KQ86"

	report := Run(Snapshot{Transactions: []model.Transaction{a, b}}, model.DefaultUnitEffects())

	if len(report.VerifiedMatches) != 1 {
		t.Fatalf("VerifiedMatches = %+v, want exactly one", report.VerifiedMatches)
	}
	if report.VerifiedMatches[0].Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", report.VerifiedMatches[0].Confidence)
	}
}

// The same ticker across two wrappers on one platform is certain.
func TestCrossReferenceAcrossWrappers(t *testing.T) {
	snap := Snapshot{
		Transactions: []model.Transaction{
			identityTx("Vanguard LifeStrategy", model.PlatformInvestEngine, model.WrapperISA),
			identityTx("Vanguard LifeStrategy", model.PlatformInvestEngine, model.WrapperGIA),
		},
		Mappings: []model.TickerMapping{mapping("Vanguard LifeStrategy", "VWRL.L")},
	}

	report := Run(snap, model.DefaultUnitEffects())

	found := false
	for _, m := range report.VerifiedMatches {
		if m.MatchType == "same_platform_different_wrapper" && m.Confidence == 1.0 {
			found = true
		}
	}
	if !found {
		t.Errorf("VerifiedMatches = %+v, want a same_platform_different_wrapper match", report.VerifiedMatches)
	}
}

// Funds with no ticker, SEDOL or ISIN can never match and are listed for
// manual attention.
func TestCrossReferenceFundsWithoutIdentifiers(t *testing.T) {
	report := Run(Snapshot{
		Transactions: []model.Transaction{
			identityTx("Mystery Fund", model.PlatformDodl, model.WrapperISA),
		},
	}, model.DefaultUnitEffects())

	if len(report.FundsWithoutIdentifiers) != 1 || report.FundsWithoutIdentifiers[0] != "Mystery Fund" {
		t.Errorf("FundsWithoutIdentifiers = %+v, want [Mystery Fund]", report.FundsWithoutIdentifiers)
	}
}

// Dividends and fees carry no identity information; only BUY/SELL rows
// contribute identities.
func TestCrossReferenceIgnoresNonTrades(t *testing.T) {
	div := identityTx("Dividend Only Fund", model.PlatformFidelity, model.WrapperISA)
	div.Type = model.TypeDividend

	report := Run(Snapshot{Transactions: []model.Transaction{div}}, model.DefaultUnitEffects())

	if len(report.FundsWithoutIdentifiers) != 0 {
		t.Errorf("FundsWithoutIdentifiers = %+v, want none", report.FundsWithoutIdentifiers)
	}
}
