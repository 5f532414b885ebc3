package vto

import "math"

// DisplayTolerance - величина, ниже которой значение считается нулевым при отображении
const DisplayTolerance = 0.05

// StepCount - число шагов методики McLaughlin
const StepCount = 8

// Measurement содержит исходные измерения пациента (мм)
type Measurement struct {
	R6           float64 `json:"r6" yaml:"r6"`                       // соотношение правых первых моляров, + = II класс
	L6           float64 `json:"l6" yaml:"l6"`                       // соотношение левых первых моляров, + = II класс
	D            float64 `json:"d" yaml:"d"`                         // вертикальная коррекция (глубокий прикус), >= 0
	S            float64 `json:"s" yaml:"s"`                         // глубина кривой Шпее, - = обратная кривая
	Midline      float64 `json:"midline" yaml:"midline"`             // нижняя зубная средняя линия, + = влево
	UpperMidline float64 `json:"upper_midline" yaml:"upper_midline"` // верхняя зубная средняя линия

	SkeletalMidline float64 `json:"skeletal_midline" yaml:"skeletal_midline"` // нижняя скелетная средняя линия
}

// Stage - стадия созревания шейных позвонков (CVMS)
type Stage int

const (
	MinStage Stage = 1
	MaxStage Stage = 6
)

// Valid проверяет что стадия в диапазоне 1..6
func (s Stage) Valid() bool {
	return s >= MinStage && s <= MaxStage
}

// GrowthAssessment - оценка роста пациента
type GrowthAssessment struct {
	Stage Stage `json:"stage" yaml:"stage"`
}

// AdjustmentVector - поправка на рост для выбранной стадии
type AdjustmentVector struct {
	Anteroposterior float64 `json:"anteroposterior" yaml:"anteroposterior"`
	Vertical        float64 `json:"vertical" yaml:"vertical"`
	UpperSpace      float64 `json:"upper_space" yaml:"upper_space"`
	LowerSpace      float64 `json:"lower_space" yaml:"lower_space"`
}

// Arch - зубная дуга
type Arch string

const (
	ArchUpper Arch = "upper"
	ArchLower Arch = "lower"
)

// Side - сторона дуги
type Side string

const (
	SideRight Side = "right"
	SideLeft  Side = "left"
	SideBoth  Side = "both"
)

// ProcedureKind - тип процедуры, изменяющей доступное место
type ProcedureKind string

const (
	ProcedureExtraction    ProcedureKind = "extraction"
	ProcedureStripping     ProcedureKind = "stripping"
	ProcedureExpansion     ProcedureKind = "expansion"
	ProcedureDistalization ProcedureKind = "distalization"
	ProcedureAnchorageLoss ProcedureKind = "anchorage_loss"
)

// ProcedureKinds перечисляет все известные процедуры
var ProcedureKinds = []ProcedureKind{
	ProcedureExtraction,
	ProcedureStripping,
	ProcedureExpansion,
	ProcedureDistalization,
	ProcedureAnchorageLoss,
}

// Procedure - выбранная процедура. Amount переопределяет величину из таблицы.
type Procedure struct {
	Kind   ProcedureKind `json:"kind" yaml:"kind"`
	Side   Side          `json:"side" yaml:"side"`
	Amount *float64      `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// SideDiscrepancy - компоненты дефицита места на одной стороне (3-3).
// Скученность отрицательная, тремы положительные.
// Midline задается только для верхней дуги; у нижней он выводится из Measurement.Midline.
type SideDiscrepancy struct {
	AnteriorCrowding float64  `json:"anterior_crowding" yaml:"anterior_crowding"`
	CurveOfSpee      float64  `json:"curve_of_spee" yaml:"curve_of_spee"`
	Midline          *float64 `json:"midline,omitempty" yaml:"midline,omitempty"`
	IncisorPosition  float64  `json:"incisor_position" yaml:"incisor_position"`
}

// ArchDiscrepancy - входные данные анализа места для одной дуги
type ArchDiscrepancy struct {
	Arch       Arch            `json:"arch" yaml:"arch"`
	Right      SideDiscrepancy `json:"right" yaml:"right"`
	Left       SideDiscrepancy `json:"left" yaml:"left"`
	Procedures []Procedure     `json:"procedures,omitempty" yaml:"procedures,omitempty"`
}

// SideSpace - результат анализа места для одной стороны
type SideSpace struct {
	AnteriorCrowding float64 `json:"anterior_crowding"`
	CurveOfSpee      float64 `json:"curve_of_spee"`
	Midline          float64 `json:"midline"`
	IncisorPosition  float64 `json:"incisor_position"`
	Initial          float64 `json:"initial"`
	Gained           float64 `json:"gained"`
	Remaining        float64 `json:"remaining"`
}

// Status описывает остаток места
func (s SideSpace) Status() string {
	return SpaceStatus(s.Remaining)
}

// SpaceStatus описывает остаток места: balanced, crowding или spacing
func SpaceStatus(remaining float64) string {
	switch {
	case math.Abs(remaining) < DisplayTolerance:
		return "balanced"
	case remaining < 0:
		return "crowding"
	default:
		return "spacing"
	}
}

// SpaceAnalysis - анализ места для дуги
type SpaceAnalysis struct {
	Arch    Arch      `json:"arch"`
	Right   SideSpace `json:"right"`
	Left    SideSpace `json:"left"`
	Initial float64   `json:"initial"`
	Gained  float64   `json:"gained"`
	Net     float64   `json:"net"`
}

// Side возвращает анализ для указанной стороны
func (a SpaceAnalysis) Side(side Side) SideSpace {
	if side == SideLeft {
		return a.Left
	}
	return a.Right
}

// SideBalance - остаток места стороны вместе с приростом от роста
type SideBalance struct {
	Remaining float64 `json:"remaining"`
	Status    string  `json:"status"`
}

// ArchBalance - итог анализа места дуги, по которому распределяются шаги
type ArchBalance struct {
	Arch   Arch        `json:"arch"`
	Growth float64     `json:"growth"` // прирост на сторону
	Right  SideBalance `json:"right"`
	Left   SideBalance `json:"left"`
}

// Side возвращает итог для указанной стороны
func (b ArchBalance) Side(side Side) SideBalance {
	if side == SideLeft {
		return b.Left
	}
	return b.Right
}

// WithGrowth добавляет к остатку каждой стороны половину прироста дуги от роста
func (a SpaceAnalysis) WithGrowth(g AdjustmentVector) ArchBalance {
	growth := g.LowerSpace / 2
	if a.Arch == ArchUpper {
		growth = g.UpperSpace / 2
	}

	side := func(s SideSpace) SideBalance {
		remaining := s.Remaining + growth
		return SideBalance{Remaining: remaining, Status: SpaceStatus(remaining)}
	}
	return ArchBalance{Arch: a.Arch, Growth: growth, Right: side(a.Right), Left: side(a.Left)}
}

// Class - целевой класс окклюзии
type Class string

const (
	ClassI   Class = "class_i"
	ClassII  Class = "class_ii"
	ClassIII Class = "class_iii"
)

// Classes перечисляет все классы
var Classes = []Class{ClassI, ClassII, ClassIII}

// TreatmentGoal - цель лечения по сторонам. Пустое значение означает I класс.
type TreatmentGoal struct {
	Right Class `json:"right,omitempty" yaml:"right,omitempty"`
	Left  Class `json:"left,omitempty" yaml:"left,omitempty"`
}

// Vector - перемещение зуба (мм)
type Vector struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// Add складывает векторы
func (v Vector) Add(o Vector) Vector {
	return Vector{Horizontal: v.Horizontal + o.Horizontal, Vertical: v.Vertical + o.Vertical}
}

// Magnitude возвращает длину вектора
func (v Vector) Magnitude() float64 {
	return math.Hypot(v.Horizontal, v.Vertical)
}

// Tooth - сегмент дуги на диаграмме
type Tooth string

const (
	ToothR6  Tooth = "R6"
	ToothR3  Tooth = "R3"
	ToothInc Tooth = "Inc"
	ToothL3  Tooth = "L3"
	ToothL6  Tooth = "L6"
)

// Segments - перемещения пяти сегментов одной дуги
type Segments struct {
	R6  Vector `json:"r6"`
	R3  Vector `json:"r3"`
	Inc Vector `json:"inc"`
	L3  Vector `json:"l3"`
	L6  Vector `json:"l6"`
}

// Add складывает сегменты попарно
func (s Segments) Add(o Segments) Segments {
	return Segments{
		R6:  s.R6.Add(o.R6),
		R3:  s.R3.Add(o.R3),
		Inc: s.Inc.Add(o.Inc),
		L3:  s.L3.Add(o.L3),
		L6:  s.L6.Add(o.L6),
	}
}

// ToothMovement - перемещение одного сегмента с направлением
type ToothMovement struct {
	Tooth      Tooth   `json:"tooth"`
	Vector     Vector  `json:"vector"`
	Magnitude  float64 `json:"magnitude"`
	Horizontal string  `json:"horizontal,omitempty"`
	Vertical   string  `json:"vertical,omitempty"`
}

// Movements раскладывает сегменты в порядке диаграммы R6, R3, Inc, L3, L6
func (s Segments) Movements() []ToothMovement {
	return []ToothMovement{
		newToothMovement(ToothR6, s.R6),
		newToothMovement(ToothR3, s.R3),
		newToothMovement(ToothInc, s.Inc),
		newToothMovement(ToothL3, s.L3),
		newToothMovement(ToothL6, s.L6),
	}
}

func newToothMovement(tooth Tooth, v Vector) ToothMovement {
	tm := ToothMovement{Tooth: tooth, Vector: v, Magnitude: v.Magnitude()}

	switch {
	case math.Abs(v.Horizontal) < DisplayTolerance:
	case tooth == ToothInc && v.Horizontal > 0:
		tm.Horizontal = "left"
	case tooth == ToothInc:
		tm.Horizontal = "right"
	case v.Horizontal > 0:
		tm.Horizontal = "mesial"
	default:
		tm.Horizontal = "distal"
	}

	switch {
	case math.Abs(v.Vertical) < DisplayTolerance:
	case v.Vertical > 0:
		tm.Vertical = "extrusion"
	default:
		tm.Vertical = "intrusion"
	}

	return tm
}

// StepName - имя шага методики
type StepName string

const (
	StepMidline         StepName = "midline"
	StepLeveling        StepName = "leveling"
	StepLowerAnterior   StepName = "lower_anterior"
	StepLowerPosterior  StepName = "lower_posterior"
	StepGrowth          StepName = "growth"
	StepMolarCorrection StepName = "molar_correction"
	StepUpperAnterior   StepName = "upper_anterior"
	StepUpperAnchorage  StepName = "upper_anchorage"
)

// StepOrder - фиксированный порядок шагов
var StepOrder = [StepCount]StepName{
	StepMidline,
	StepLeveling,
	StepLowerAnterior,
	StepLowerPosterior,
	StepGrowth,
	StepMolarCorrection,
	StepUpperAnterior,
	StepUpperAnchorage,
}

// StepMovement - перемещения одного шага и накопленный итог
type StepMovement struct {
	Number     int      `json:"number"`
	Name       StepName `json:"name"`
	Upper      Segments `json:"upper"`
	Lower      Segments `json:"lower"`
	UpperTotal Segments `json:"upper_total"`
	LowerTotal Segments `json:"lower_total"`
}

// Input - полный набор входных данных для RunFullVTO
type Input struct {
	Measurement Measurement      `json:"measurement" yaml:"measurement"`
	Growth      GrowthAssessment `json:"growth" yaml:"growth"`
	SkipGrowth  bool             `json:"skip_growth,omitempty" yaml:"skip_growth,omitempty"`
	Upper       ArchDiscrepancy  `json:"upper" yaml:"upper"`
	Lower       ArchDiscrepancy  `json:"lower" yaml:"lower"`
	Goal        TreatmentGoal    `json:"goal" yaml:"goal"`
}

// Result - результат расчета VTO
type Result struct {
	Steps             [StepCount]StepMovement `json:"steps"`
	MidlineCorrection float64                 `json:"midline_correction"`
	Growth            AdjustmentVector        `json:"growth"`
	Upper             SpaceAnalysis           `json:"upper"`
	Lower             SpaceAnalysis           `json:"lower"`
	UpperBalance      ArchBalance             `json:"upper_balance"`
	LowerBalance      ArchBalance             `json:"lower_balance"`
	Goal              TreatmentGoal           `json:"goal"`
}

// Final возвращает итоговые перемещения обеих дуг после восьмого шага
func (r *Result) Final() (upper, lower Segments) {
	last := r.Steps[StepCount-1]
	return last.UpperTotal, last.LowerTotal
}
