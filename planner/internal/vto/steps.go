package vto

import "math"

// stepContext - неизменяемые входные данные конвейера шагов
type stepContext struct {
	m      Measurement
	g      AdjustmentVector
	upper  SpaceAnalysis
	lower  SpaceAnalysis
	goal   TreatmentGoal
	tables *Tables

	upperBalance ArchBalance
	lowerBalance ArchBalance
}

func (c *stepContext) space(arch Arch) SpaceAnalysis {
	if arch == ArchUpper {
		return c.upper
	}
	return c.lower
}

// available возвращает остаток места стороны с учетом половины прироста от роста
func (c *stepContext) available(arch Arch, side Side) float64 {
	if arch == ArchUpper {
		return c.upperBalance.Side(side).Remaining
	}
	return c.lowerBalance.Side(side).Remaining
}

func (c *stepContext) allocation(side Side) Allocation {
	if side == SideLeft {
		return c.tables.Allocation[c.goal.Left]
	}
	return c.tables.Allocation[c.goal.Right]
}

// anterior распределяет фронтальную долю остатка.
// Клыки идут по своей стороне. Резцы смещаются на среднюю величину резцовой
// доли сторон в направлении, усредненном по знакам сторон: при скученности с
// обеих сторон смещение гасится. Компонент средней линии в резцовую долю не
// входит, его устраняет шаг средней линии.
func (c *stepContext) anterior(arch Arch) Segments {
	right := c.available(arch, SideRight) * c.allocation(SideRight).Anterior
	left := c.available(arch, SideLeft) * c.allocation(SideLeft).Anterior

	sa := c.space(arch)
	incRight := c.available(arch, SideRight) - sa.Right.Midline
	incLeft := c.available(arch, SideLeft) - sa.Left.Midline

	magnitude := (math.Abs(incRight)*c.allocation(SideRight).Anterior +
		math.Abs(incLeft)*c.allocation(SideLeft).Anterior) / 2 * c.tables.IncisorShare
	direction := (incisorSign(incRight, SideRight) + incisorSign(incLeft, SideLeft)) / 2

	return Segments{
		R3:  Vector{Horizontal: right * c.tables.CanineShare},
		Inc: Vector{Horizontal: direction * magnitude},
		L3:  Vector{Horizontal: left * c.tables.CanineShare},
	}
}

// incisorSign - направление резцов от одной стороны (+ = влево пациента):
// при скученности наружу к этой стороне, при избытке места внутрь
func incisorSign(remaining float64, side Side) float64 {
	if remaining == 0 {
		return 0
	}
	outward := -1.0
	if side == SideLeft {
		outward = 1.0
	}
	if remaining < 0 {
		return outward
	}
	return 0 - outward
}

// stepFunc вычисляет приращения шага по итогам предыдущих шагов
type stepFunc func(c *stepContext, upperTotal, lowerTotal Segments) (upper, lower Segments)

var stepFuncs = [StepCount]stepFunc{
	midlineStep,
	levelingStep,
	lowerAnteriorStep,
	lowerPosteriorStep,
	growthStep,
	molarCorrectionStep,
	upperAnteriorStep,
	upperAnchorageStep,
}

// ComputeStepMovements применяет восемь шагов в фиксированном порядке.
// Шаг i видит только входные данные и итоги шагов 1..i-1.
func (e *Engine) ComputeStepMovements(m Measurement, g AdjustmentVector, upper, lower SpaceAnalysis, goal TreatmentGoal) ([StepCount]StepMovement, error) {
	var steps [StepCount]StepMovement

	goal, err := normalizeGoal(goal)
	if err != nil {
		return steps, err
	}

	upper.Arch, lower.Arch = ArchUpper, ArchLower

	c := &stepContext{
		m:            m,
		g:            g,
		upper:        upper,
		lower:        lower,
		goal:         goal,
		tables:       e.tables,
		upperBalance: upper.WithGrowth(g),
		lowerBalance: lower.WithGrowth(g),
	}

	var upperTotal, lowerTotal Segments
	for i, fn := range stepFuncs {
		du, dl := fn(c, upperTotal, lowerTotal)
		upperTotal = upperTotal.Add(du)
		lowerTotal = lowerTotal.Add(dl)

		steps[i] = StepMovement{
			Number:     i + 1,
			Name:       StepOrder[i],
			Upper:      du,
			Lower:      dl,
			UpperTotal: upperTotal,
			LowerTotal: lowerTotal,
		}
	}
	return steps, nil
}

// 1. Средняя линия: резцы смещаются к скелетной средней линии
func midlineStep(c *stepContext, _, _ Segments) (upper, lower Segments) {
	upper.Inc.Horizontal = 0 - c.m.UpperMidline
	lower.Inc.Horizontal = MidlineCorrection(c.m)
	return upper, lower
}

// 2. Нивелирование: кривая Шпее (S) делится между интрузией резцов и экструзией
// моляров нижней дуги, глубокий прикус (D) - интрузия верхних резцов
func levelingStep(c *stepContext, _, _ Segments) (upper, lower Segments) {
	lower.Inc.Vertical = 0 - c.m.S/2
	lower.R6.Vertical = c.m.S / 2
	lower.L6.Vertical = c.m.S / 2
	upper.Inc.Vertical = 0 - c.m.D
	return upper, lower
}

// 3. Нижняя фронтальная группа
func lowerAnteriorStep(c *stepContext, _, _ Segments) (upper, lower Segments) {
	return upper, c.anterior(ArchLower)
}

// 4. Нижние моляры получают заднюю долю остатка
func lowerPosteriorStep(c *stepContext, _, _ Segments) (upper, lower Segments) {
	lower.R6.Horizontal = c.available(ArchLower, SideRight) * c.allocation(SideRight).Posterior
	lower.L6.Horizontal = c.available(ArchLower, SideLeft) * c.allocation(SideLeft).Posterior
	return upper, lower
}

// 5. Рост: сагиттальный рост нижней челюсти переносит нижние боковые сегменты
// мезиально относительно верхней, вертикальный делится между молярами дуг
func growthStep(c *stepContext, _, _ Segments) (upper, lower Segments) {
	ap := Vector{Horizontal: c.g.Anteroposterior, Vertical: c.g.Vertical / 2}
	lower.R6 = ap
	lower.L6 = ap
	lower.R3 = Vector{Horizontal: c.g.Anteroposterior}
	lower.L3 = Vector{Horizontal: c.g.Anteroposterior}

	upper.R6.Vertical = c.g.Vertical / 2
	upper.L6.Vertical = c.g.Vertical / 2
	return upper, lower
}

// 6. Коррекция моляров: верхний моляр ставится в целевое соотношение
// относительно итогового положения нижнего
func molarCorrectionStep(c *stepContext, _, lowerTotal Segments) (upper, lower Segments) {
	upper.R6.Horizontal = c.tables.MolarTargets[c.goal.Right] - c.m.R6 + lowerTotal.R6.Horizontal
	upper.L6.Horizontal = c.tables.MolarTargets[c.goal.Left] - c.m.L6 + lowerTotal.L6.Horizontal
	return upper, lower
}

// 7. Верхняя фронтальная группа
func upperAnteriorStep(c *stepContext, _, _ Segments) (upper, lower Segments) {
	return c.anterior(ArchUpper), lower
}

// 8. Опора: верхние клыки следуют за той частью перемещения моляров,
// которую не покрывает задняя доля остатка верхней дуги
func upperAnchorageStep(c *stepContext, upperTotal, _ Segments) (upper, lower Segments) {
	upper.R3.Horizontal = upperTotal.R6.Horizontal - c.available(ArchUpper, SideRight)*c.allocation(SideRight).Posterior
	upper.L3.Horizontal = upperTotal.L6.Horizontal - c.available(ArchUpper, SideLeft)*c.allocation(SideLeft).Posterior
	return upper, lower
}
