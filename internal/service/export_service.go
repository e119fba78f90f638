package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"dormhop/backend/internal/model"
	"dormhop/backend/internal/repository"
	"dormhop/backend/pkg/clock"
	pkgerrors "dormhop/backend/pkg/errors"
)

var ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindInternal, "failed to generate spreadsheet")

const (
	sheetSent     = "Sent"
	sheetReceived = "Received"
)

var knockSheetHeader = []string{"Knock ID", "Status", "Dorm", "Room", "Other party", "Class year", "Created at", "Accepted at", "Contact email"}

// ExportService spreadsheet exports
//
// The workbook is returned as a buffer; the handler sets the download headers.
type ExportService interface {
	// ExportKnocks one sheet for sent knocks, one for received
	ExportKnocks(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clk, logger: logger}
}

func (s *exportService) ExportKnocks(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	sent, err := s.repo.Knock.ListSent(ctx, userID)
	if err != nil {
		s.logger.Error("list sent knocks failed", zap.Error(err))
		return nil, "", err
	}

	var received []model.Knock
	room, err := s.repo.Room.GetByOwner(ctx, userID)
	switch {
	case err == nil:
		received, err = s.repo.Knock.ListReceived(ctx, room.RoomID)
		if err != nil {
			s.logger.Error("list received knocks failed", zap.Error(err))
			return nil, "", err
		}
	case !isNotFound(err):
		s.logger.Error("get own room failed", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// the default sheet is renamed rather than deleted so the workbook is never empty
	if err := f.SetSheetName("Sheet1", sheetSent); err != nil {
		s.logger.Error("rename sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	if _, err := f.NewSheet(sheetReceived); err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	writeKnockSheet(f, sheetSent, headerStyle, sent, func(k *model.Knock) *model.User {
		if k.ToRoom == nil {
			return nil
		}
		return k.ToRoom.Owner
	})
	writeKnockSheet(f, sheetReceived, headerStyle, received, func(k *model.Knock) *model.User {
		return k.FromUser
	})

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("dormhop-knocks-%s.xlsx", s.clock.Now().UTC().Format("20060102"))
	return buf, filename, nil
}

// writeKnockSheet one row per knock; other returns the counterpart user.
// The contact column stays blank until the knock is accepted.
func writeKnockSheet(f *excelize.File, sheet string, headerStyle int, knocks []model.Knock, other func(*model.Knock) *model.User) {
	for i, h := range knockSheetHeader {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(knockSheetHeader)-1), 1), headerStyle)
	f.SetColWidth(sheet, "A", "A", 38)
	f.SetColWidth(sheet, "B", colName(len(knockSheetHeader)-1), 18)

	for i := range knocks {
		k := &knocks[i]
		row := i + 2
		values := make([]interface{}, len(knockSheetHeader))
		values[0] = k.KnockID
		values[1] = k.Status
		if k.ToRoom != nil {
			values[2] = k.ToRoom.Dorm
			values[3] = k.ToRoom.RoomNumber
		}
		if u := other(k); u != nil {
			values[4] = u.FullName
			values[5] = u.ClassYear
			if k.Status == model.KnockAccepted {
				values[8] = u.Email
			}
		}
		values[6] = formatTime(k.CreatedAt)
		if k.AcceptedAt != nil {
			values[7] = formatTime(*k.AcceptedAt)
		}
		for col, v := range values {
			if v != nil {
				f.SetCellValue(sheet, cell(colName(col), row), v)
			}
		}
	}
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
