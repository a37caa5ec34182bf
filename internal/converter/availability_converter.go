package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// SlotsToResponses converts a slice of Slot values to SlotResponse DTOs.
// Always returns a non-nil slice so an empty day serializes as [].
func SlotsToResponses(slots []entity.Slot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, s := range slots {
		responses[i] = dto.SlotResponse{Start: s.Start, End: s.End}
	}
	return responses
}
