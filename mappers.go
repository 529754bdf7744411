package fstkit

// IdentityMapper passes arcs through unchanged. Useful for copying an
// automaton of any backing into a mutable one via ArcMapInto.
type IdentityMapper[W Weight[W]] struct{}

func (IdentityMapper[W]) Map(arc Arc[W]) Arc[W]                  { return arc }
func (IdentityMapper[W]) FinalAction() FinalAction               { return NoSuperfinal }
func (IdentityMapper[W]) InputSymbolsAction() SymbolsAction      { return CopySymbols }
func (IdentityMapper[W]) OutputSymbolsAction() SymbolsAction     { return CopySymbols }
func (IdentityMapper[W]) MapProperties(p PropertyMask) PropertyMask { return p }

// InputEpsilonMapper replaces every input label with epsilon.
type InputEpsilonMapper[W Weight[W]] struct{}

func (InputEpsilonMapper[W]) Map(arc Arc[W]) Arc[W] {
	arc.ILabel = Epsilon
	return arc
}
func (InputEpsilonMapper[W]) FinalAction() FinalAction           { return NoSuperfinal }
func (InputEpsilonMapper[W]) InputSymbolsAction() SymbolsAction  { return ClearSymbols }
func (InputEpsilonMapper[W]) OutputSymbolsAction() SymbolsAction { return CopySymbols }
func (InputEpsilonMapper[W]) MapProperties(p PropertyMask) PropertyMask {
	return (p & PropILabelInvariantProperties) | PropILabelSorted
}

// OutputEpsilonMapper replaces every output label with epsilon.
type OutputEpsilonMapper[W Weight[W]] struct{}

func (OutputEpsilonMapper[W]) Map(arc Arc[W]) Arc[W] {
	arc.OLabel = Epsilon
	return arc
}
func (OutputEpsilonMapper[W]) FinalAction() FinalAction           { return NoSuperfinal }
func (OutputEpsilonMapper[W]) InputSymbolsAction() SymbolsAction  { return CopySymbols }
func (OutputEpsilonMapper[W]) OutputSymbolsAction() SymbolsAction { return ClearSymbols }
func (OutputEpsilonMapper[W]) MapProperties(p PropertyMask) PropertyMask {
	return (p & PropOLabelInvariantProperties) | PropOLabelSorted
}

// SuperFinalMapper moves every final weight onto an arc to a single
// superfinal state, labeled FinalLabel on both sides.
type SuperFinalMapper[W Weight[W]] struct {
	FinalLabel Label
}

func (m SuperFinalMapper[W]) Map(arc Arc[W]) Arc[W] {
	if arc.NextState == NoStateID && !arc.Weight.Equal(Zero[W]()) {
		arc.ILabel = m.FinalLabel
		arc.OLabel = m.FinalLabel
	}
	return arc
}
func (SuperFinalMapper[W]) FinalAction() FinalAction           { return RequireSuperfinal }
func (SuperFinalMapper[W]) InputSymbolsAction() SymbolsAction  { return CopySymbols }
func (SuperFinalMapper[W]) OutputSymbolsAction() SymbolsAction { return CopySymbols }
func (m SuperFinalMapper[W]) MapProperties(p PropertyMask) PropertyMask {
	p &= PropAddSuperFinalProperties
	if m.FinalLabel != Epsilon {
		p &= PropILabelInvariantProperties & PropOLabelInvariantProperties
	}
	return p
}

// PlusMapper folds a constant into every non-Zero weight with Plus.
type PlusMapper[W Weight[W]] struct {
	Weight W
}

func (m PlusMapper[W]) Map(arc Arc[W]) Arc[W] {
	if !arc.Weight.Equal(Zero[W]()) {
		arc.Weight = arc.Weight.Plus(m.Weight)
	}
	return arc
}
func (PlusMapper[W]) FinalAction() FinalAction           { return NoSuperfinal }
func (PlusMapper[W]) InputSymbolsAction() SymbolsAction  { return CopySymbols }
func (PlusMapper[W]) OutputSymbolsAction() SymbolsAction { return CopySymbols }
func (PlusMapper[W]) MapProperties(p PropertyMask) PropertyMask {
	return p & PropWeightInvariantProperties
}

// TimesMapper folds a constant into every non-Zero weight with Times.
type TimesMapper[W Weight[W]] struct {
	Weight W
}

func (m TimesMapper[W]) Map(arc Arc[W]) Arc[W] {
	if !arc.Weight.Equal(Zero[W]()) {
		arc.Weight = arc.Weight.Times(m.Weight)
	}
	return arc
}
func (TimesMapper[W]) FinalAction() FinalAction           { return NoSuperfinal }
func (TimesMapper[W]) InputSymbolsAction() SymbolsAction  { return CopySymbols }
func (TimesMapper[W]) OutputSymbolsAction() SymbolsAction { return CopySymbols }
func (TimesMapper[W]) MapProperties(p PropertyMask) PropertyMask {
	return p & PropWeightInvariantProperties
}

// RmWeightMapper replaces every non-Zero weight with One.
type RmWeightMapper[W Weight[W]] struct{}

func (RmWeightMapper[W]) Map(arc Arc[W]) Arc[W] {
	if !arc.Weight.Equal(Zero[W]()) {
		arc.Weight = One[W]()
	}
	return arc
}
func (RmWeightMapper[W]) FinalAction() FinalAction           { return NoSuperfinal }
func (RmWeightMapper[W]) InputSymbolsAction() SymbolsAction  { return CopySymbols }
func (RmWeightMapper[W]) OutputSymbolsAction() SymbolsAction { return CopySymbols }
func (RmWeightMapper[W]) MapProperties(p PropertyMask) PropertyMask {
	return (p & PropWeightInvariantProperties) | PropUnweighted
}

// QuantizableWeight is a weight that supports quantization.
type QuantizableWeight[W any] interface {
	Weight[W]
	Quantizer[W]
}

// QuantizeMapper rounds weights to multiples of Delta; the weight
// type's own default applies when Delta is zero.
type QuantizeMapper[W QuantizableWeight[W]] struct {
	Delta float64
}

func (m QuantizeMapper[W]) Map(arc Arc[W]) Arc[W] {
	arc.Weight = arc.Weight.Quantize(m.Delta)
	return arc
}
func (QuantizeMapper[W]) FinalAction() FinalAction           { return NoSuperfinal }
func (QuantizeMapper[W]) InputSymbolsAction() SymbolsAction  { return CopySymbols }
func (QuantizeMapper[W]) OutputSymbolsAction() SymbolsAction { return CopySymbols }
func (QuantizeMapper[W]) MapProperties(p PropertyMask) PropertyMask {
	return p & PropWeightInvariantProperties
}
