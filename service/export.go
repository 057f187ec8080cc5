package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"modeladmin/viewset"

	"github.com/xuri/excelize/v2"
)

// 导出格式
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ContentType 导出格式对应的 MIME 类型
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ValidFormat 是否支持的导出格式
func ValidFormat(format string) bool {
	return format == FormatCSV || format == FormatXLSX
}

// ExportListing 按列导出对象列表
func ExportListing(w io.Writer, format, title string, cols []viewset.Column, objects []viewset.Object) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, cols, objects)
	case FormatXLSX:
		return writeXLSX(w, title, cols, objects)
	default:
		return fmt.Errorf("不支持的导出格式: %s", format)
	}
}

func writeCSV(w io.Writer, cols []viewset.Column, objects []viewset.Object) error {
	// UTF-8 BOM，Excel 打开不乱码
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, c.Header())
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, obj := range objects {
		record := make([]string, 0, len(cols))
		for _, c := range cols {
			record = append(record, c.Text(obj))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func sheetName(title string) string {
	name := strings.TrimSpace(title)
	for _, ch := range []string{":", "\\", "/", "?", "*", "[", "]"} {
		name = strings.ReplaceAll(name, ch, " ")
	}
	if name == "" {
		name = "Sheet1"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

func writeXLSX(w io.Writer, title string, cols []viewset.Column, objects []viewset.Object) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("设置工作表名失败: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("创建表头样式失败: %w", err)
	}

	header := make([]any, 0, len(cols))
	for _, c := range cols {
		header = append(header, c.Header())
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if len(cols) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for i, obj := range objects {
		row := make([]any, 0, len(cols))
		for _, c := range cols {
			row = append(row, c.Text(obj))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
