package rules

// Общие ограничения полей, разделяемые валидацией формы и транспортным слоем.
const (
	TitleMaxLen = 120

	DistanceMinKm = 0.5
	DistanceMaxKm = 100

	ParticipantsMin = 1
	ParticipantsMax = 100

	LatMin = -90.0
	LatMax = 90.0
	LngMin = -180.0
	LngMax = 180.0
)
