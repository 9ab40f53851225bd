package canvas

// #region mask-type

// StampSize is the pixel footprint of one grid cell on the base canvas.
const StampSize = 4

// mask is a 4×4 binary stamp. Stamps are static data trained into the
// classifiers: the shape mask identifies the category, the fill mask grows
// monotonically with tier.
type mask [StampSize][StampSize]float64

// #endregion mask-type

// #region shape-masks

// shapeMasks keys a fixed stamp per category. These are part of the trained
// classifier's contract, exactly like the category table's hue values.
var shapeMasks = map[string]mask{
	"metal": {
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	},
	"wood": {
		{1, 0, 1, 0},
		{1, 0, 1, 0},
		{1, 0, 1, 0},
		{1, 0, 1, 0},
	},
	"stone": {
		{0, 1, 1, 0},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{0, 1, 1, 0},
	},
	"elemental": {
		{0, 1, 1, 0},
		{1, 1, 1, 1},
		{0, 1, 1, 0},
		{0, 1, 1, 0},
	},
	"monster_drop": {
		{1, 0, 0, 1},
		{0, 1, 1, 0},
		{0, 1, 1, 0},
		{1, 0, 0, 1},
	},
	"herb": {
		{0, 0, 1, 0},
		{0, 1, 1, 0},
		{0, 1, 0, 0},
		{1, 1, 0, 0},
	},
	"crystal": {
		{0, 1, 1, 0},
		{0, 1, 1, 0},
		{1, 1, 1, 1},
		{0, 1, 1, 0},
	},
	"bone": {
		{1, 0, 0, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 0, 0, 1},
	},
	"cloth": {
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
	},
	"essence": {
		{0, 1, 1, 0},
		{1, 0, 0, 1},
		{1, 0, 0, 1},
		{0, 1, 1, 0},
	},
}

// #endregion shape-masks

// #region fill-masks

// fillMasks keys a fixed stamp per tier. Each tier's footprint is a strict
// superset of the previous tier's: 4, 8, 12, 16 pixels.
var fillMasks = map[int]mask{
	1: {
		{0, 0, 0, 0},
		{0, 1, 1, 0},
		{0, 1, 1, 0},
		{0, 0, 0, 0},
	},
	2: {
		{0, 1, 1, 0},
		{0, 1, 1, 0},
		{0, 1, 1, 0},
		{0, 1, 1, 0},
	},
	3: {
		{0, 1, 1, 0},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{0, 1, 1, 0},
	},
	4: {
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	},
}

// #endregion fill-masks
