package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
)

func schedule(open, close string) terminalservice.DaySchedule {
	return terminalservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close}
}

func TestBuildSlotGrid(t *testing.T) {
	grid, err := buildSlotGrid(schedule("06:00", "22:00"), 60)

	require.NoError(t, err)
	require.Len(t, grid, 16)
	assert.Equal(t, "06:00", grid[0].start.String())
	assert.Equal(t, "07:00", grid[0].end.String())
	assert.Equal(t, "21:00", grid[15].start.String())
	assert.Equal(t, "22:00", grid[15].end.String())
}

func TestBuildSlotGrid_PartialTailDropped(t *testing.T) {
	// 09:00-17:30 при шаге 60 минут: хвост 17:00-17:30 не помещается
	grid, err := buildSlotGrid(schedule("09:00", "17:30"), 60)

	require.NoError(t, err)
	require.Len(t, grid, 8)
	assert.Equal(t, "17:00", grid[7].end.String())
}

func TestBuildSlotGrid_ShortSlots(t *testing.T) {
	grid, err := buildSlotGrid(schedule("10:00", "11:00"), 15)

	require.NoError(t, err)
	assert.Len(t, grid, 4)
}

func TestBuildSlotGrid_ClosedDay(t *testing.T) {
	grid, err := buildSlotGrid(terminalservice.DaySchedule{IsOpen: false}, 60)

	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestBuildSlotGrid_MissingHours(t *testing.T) {
	open := "06:00"
	grid, err := buildSlotGrid(terminalservice.DaySchedule{IsOpen: true, OpenTime: &open}, 60)

	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestBuildSlotGrid_InvalidDuration(t *testing.T) {
	grid, err := buildSlotGrid(schedule("06:00", "22:00"), 0)

	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestBuildSlotGrid_InvalidOpenTime(t *testing.T) {
	_, err := buildSlotGrid(schedule("6am", "22:00"), 60)

	assert.Error(t, err)
}
