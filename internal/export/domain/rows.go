package domain

import (
	"strconv"

	analyticsdomain "supplyperf/internal/analytics/domain"
	ordersdomain "supplyperf/internal/orders/domain"
)

const dateLayout = "2006-01-02"

// SupplierRow is one exported supplier summary line.
type SupplierRow struct {
	SupplierID    string  `parquet:"name=supplier_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	SupplierName  string  `parquet:"name=supplier_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category      string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Region        string  `parquet:"name=region, type=BYTE_ARRAY, convertedtype=UTF8"`
	AvgLeadTime   float64 `parquet:"name=avg_lead_time_days, type=DOUBLE"`
	LateRate      float64 `parquet:"name=late_rate, type=DOUBLE"`
	POCount       int64   `parquet:"name=po_count, type=INT64"`
	TotalQuantity int64   `parquet:"name=total_quantity, type=INT64"`
	DefectRate    float64 `parquet:"name=defect_rate, type=DOUBLE"`
}

// SupplierHeaders are the column names of SupplierRow.
func SupplierHeaders() []string {
	return []string{
		"supplier_id",
		"supplier_name",
		"category",
		"region",
		"avg_lead_time_days",
		"late_rate",
		"po_count",
		"total_quantity",
		"defect_rate",
	}
}

func NewSupplierRow(r analyticsdomain.SupplierSummaryRow) SupplierRow {
	return SupplierRow{
		SupplierID:    string(r.SupplierID),
		SupplierName:  r.Name,
		Category:      r.Category,
		Region:        r.Region,
		AvgLeadTime:   r.AvgLeadTime,
		LateRate:      r.LateRate,
		POCount:       int64(r.POCount),
		TotalQuantity: int64(r.TotalQuantity),
		DefectRate:    r.DefectRate,
	}
}

func (r SupplierRow) ToCSVRow() []string {
	return []string{
		r.SupplierID,
		r.SupplierName,
		r.Category,
		r.Region,
		formatFloat(r.AvgLeadTime),
		formatFloat(r.LateRate),
		strconv.FormatInt(r.POCount, 10),
		strconv.FormatInt(r.TotalQuantity, 10),
		formatFloat(r.DefectRate),
	}
}

func (r SupplierRow) ToCells() []any {
	return []any{r.SupplierID, r.SupplierName, r.Category, r.Region, r.AvgLeadTime, r.LateRate, r.POCount, r.TotalQuantity, r.DefectRate}
}

// RecordRow is one exported merged performance record.
type RecordRow struct {
	POID                 string  `parquet:"name=po_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	SupplierID           string  `parquet:"name=supplier_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderDate            string  `parquet:"name=order_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	ExpectedDeliveryDate string  `parquet:"name=expected_delivery_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	ActualDeliveryDate   string  `parquet:"name=actual_delivery_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	QuantityOrdered      int64   `parquet:"name=quantity_ordered, type=INT64"`
	QuantityReceived     int64   `parquet:"name=quantity_received, type=INT64"`
	DefectQty            int64   `parquet:"name=defect_qty, type=INT64"`
	LeadTimeDays         int64   `parquet:"name=lead_time_days, type=INT64"`
	DelayDays            int64   `parquet:"name=delay_days, type=INT64"`
	DefectRate           float64 `parquet:"name=defect_rate, type=DOUBLE"`
	IsLate               bool    `parquet:"name=is_late, type=BOOLEAN"`
	Category             string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Region               string  `parquet:"name=region, type=BYTE_ARRAY, convertedtype=UTF8"`
	BasePrice            float64 `parquet:"name=base_price, type=DOUBLE"`
}

// RecordHeaders are the column names of RecordRow.
func RecordHeaders() []string {
	return []string{
		"po_id",
		"supplier_id",
		"order_date",
		"expected_delivery_date",
		"actual_delivery_date",
		"quantity_ordered",
		"quantity_received",
		"defect_qty",
		"lead_time_days",
		"delay_days",
		"defect_rate",
		"is_late",
		"category",
		"region",
		"base_price",
	}
}

func NewRecordRow(r ordersdomain.PerformanceRecord) RecordRow {
	return RecordRow{
		POID:                 string(r.POID),
		SupplierID:           string(r.SupplierID),
		OrderDate:            r.OrderDate.Format(dateLayout),
		ExpectedDeliveryDate: r.ExpectedDeliveryDate.Format(dateLayout),
		ActualDeliveryDate:   r.ActualDeliveryDate.Format(dateLayout),
		QuantityOrdered:      int64(r.QuantityOrdered.Value()),
		QuantityReceived:     int64(r.QuantityReceived.Value()),
		DefectQty:            int64(r.DefectQty.Value()),
		LeadTimeDays:         int64(r.LeadTimeDays),
		DelayDays:            int64(r.DelayDays),
		DefectRate:           r.DefectRate,
		IsLate:               r.IsLate,
		Category:             r.Category,
		Region:               r.Region,
		BasePrice:            r.BasePrice,
	}
}

func (r RecordRow) ToCSVRow() []string {
	return []string{
		r.POID,
		r.SupplierID,
		r.OrderDate,
		r.ExpectedDeliveryDate,
		r.ActualDeliveryDate,
		strconv.FormatInt(r.QuantityOrdered, 10),
		strconv.FormatInt(r.QuantityReceived, 10),
		strconv.FormatInt(r.DefectQty, 10),
		strconv.FormatInt(r.LeadTimeDays, 10),
		strconv.FormatInt(r.DelayDays, 10),
		formatFloat(r.DefectRate),
		strconv.FormatBool(r.IsLate),
		r.Category,
		r.Region,
		formatFloat(r.BasePrice),
	}
}

func (r RecordRow) ToCells() []any {
	return []any{
		r.POID, r.SupplierID, r.OrderDate, r.ExpectedDeliveryDate, r.ActualDeliveryDate,
		r.QuantityOrdered, r.QuantityReceived, r.DefectQty, r.LeadTimeDays, r.DelayDays,
		r.DefectRate, r.IsLate, r.Category, r.Region, r.BasePrice,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
