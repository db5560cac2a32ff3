package sketch

// MaxPointsInEntity bounds the point slots of one entity; cubic splines grow
// interior control points up to this limit.
const MaxPointsInEntity = 12

type reqInfo struct {
	entity      EntityType
	points      int
	hasNormal   bool
	hasDistance bool
}

var reqTable = map[RequestType]reqInfo{
	RequestDatumPoint:    {EntityPointIn3d, 1, false, false},
	RequestWorkplane:     {EntityWorkplane, 1, true, false},
	RequestLineSegment:   {EntityLineSegment, 2, false, false},
	RequestCircle:        {EntityCircle, 1, true, true},
	RequestArcOfCircle:   {EntityArcOfCircle, 3, true, false},
	RequestCubic:         {EntityCubic, 4, false, false},
	RequestCubicPeriodic: {EntityCubicPeriodic, 3, false, false},
	RequestTTFText:       {EntityTTFText, 2, true, false},
}

// RequestInfo reports how a request of type t generates: its primary entity
// type, the number of point slots, and whether it owns a normal and a
// distance.
func RequestInfo(t RequestType, extraPoints int) (ent EntityType, points int, hasNormal, hasDistance bool) {
	info, ok := reqTable[t]
	if !ok {
		return 0, 0, false, false
	}
	return info.entity, info.points + extraPoints, info.hasNormal, info.hasDistance
}

// EntityInfo reports how many of an entity's leading point slots are
// meaningful for dragging. Points themselves report one.
func EntityInfo(t EntityType, extraPoints int) (points int) {
	switch t {
	case EntityPointIn3d, EntityPointIn2d, EntityPointNTrans, EntityPointNRotTrans:
		return 1
	case EntityWorkplane, EntityCircle, EntityNormalIn3d, EntityNormalIn2d:
		return 1
	case EntityLineSegment, EntityTTFText:
		return 2
	case EntityArcOfCircle:
		return 3
	case EntityCubic:
		return 4 + extraPoints
	case EntityCubicPeriodic:
		return 3 + extraPoints
	}
	return 0
}

