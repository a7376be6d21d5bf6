package todo

// Category groups lines that are drawn with the same color.
type Category int

const (
	CategoryNeutral Category = iota
	CategoryEdit
	CategoryReword
	CategorySquash
	CategoryFixup
	CategoryExec
)

// Emphasis is the text attribute applied on top of the category color.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisDim
	EmphasisDimStrike
)

// Style is the display classification of a line.
type Style struct {
	Category Category
	Emphasis Emphasis
}

// Classify reports how a line should be displayed. It has no side effects.
func (l Line) Classify() Style {
	switch l.Kind {
	case KindComment:
		return Style{Category: CategoryNeutral, Emphasis: EmphasisDim}
	case KindDrop:
		return Style{Category: CategoryNeutral, Emphasis: EmphasisDimStrike}
	case KindEdit:
		return Style{Category: CategoryEdit}
	case KindReword:
		return Style{Category: CategoryReword}
	case KindSquash:
		return Style{Category: CategorySquash}
	case KindFixup:
		return Style{Category: CategoryFixup}
	case KindExec:
		return Style{Category: CategoryExec}
	}
	return Style{}
}
