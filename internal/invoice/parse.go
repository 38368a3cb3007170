package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kpauljoseph/invoice-renamer/pkg/models"
)

const DefaultInvoiceType = "电子发票（普通发票）"

var (
	invoiceTypes = []string{
		"电子发票（普通发票）",
		"增值税专用发票",
		"增值税（专用发票）",
		"增值税普通发票",
		"机动车销售统一发票",
	}

	serviceTypes = []string{
		"旅客运输服务",
		"运输服务",
		"客运服务",
	}

	numberPatterns = compileAll(
		`发票号码[:：]\s*(\d{20})`,
		`发票号码\s*(\d{20})`,
		`号码[:：]\s*(\d{20})`,
	)

	datePatterns = compileAll(
		`开票日期[:：]\s*(\d{4})年(\d{1,2})月(\d{1,2})日`,
		`开票日期[:：]\s*(\d{4})-(\d{1,2})-(\d{1,2})`,
		`日期[:：]\s*(\d{4})年(\d{1,2})月(\d{1,2})日`,
	)

	buyerNamePatterns = compileAll(
		`(?m)购\s*名称：\s*([^\n销]+?)\s*(?:统一社会信用代码|纳税人识别号|销|$)`,
		`(?m)购买方[:：]\s*名称[:：]?\s*([^\n]+?)\s*(?:统一社会信用代码|纳税人识别号|销|$)`,
	)

	buyerTaxIDPatterns = compileAll(
		`统一社会信用代码/纳税人识别号[:：]\s*([A-Z0-9]{18,20})\s*[^\n]*销`,
		`统一社会信用代码/纳税人识别号[:：]\s*([A-Z0-9]{18,20})\s*[^\n]*售`,
		`纳税人识别号[:：]\s*([A-Z0-9]{18,20})\s*销售方`,
	)

	sellerNamePatterns = compileAll(
		`(?m)销\s*名称：\s*([^\n]+?)\s*(?:统一社会信用代码|纳税人识别号|$)`,
		`(?m)销售方[:：]\s*名称[:：]?\s*([^\n]+?)\s*(?:统一社会信用代码|纳税人识别号|$)`,
	)

	sellerTaxIDPatterns = compileAll(
		`(?s)售方信息.*?统一社会信用代码/纳税人识别号[:：]\s*([A-Z0-9]{18,20})`,
		`(?s)统一社会信用代码/纳税人识别号[:：]\s*([A-Z0-9]{18,20})\s*[^\n]*项目名称`,
		`(?s)售.*?统一社会信用代码/纳税人识别号[:：]\s*([A-Z0-9]{18,20})`,
	)

	itemPattern = regexp.MustCompile(`^([^*\n]+)\s+(-?\d+\.\d{2})\s+(-?\d+\.\d{2})\s+(-?\d+\.\d{2})\s+([\d%.]+)\s+(-?\d+\.\d{2})`)

	amountPatterns = compileAll(
		`合 计\s+[￥¥]?\s*(\d+\.\d{2})`,
		`合计金额\s+[￥¥]?\s*(\d+\.\d{2})`,
	)

	taxPatterns = compileAll(
		`合 计\s+[￥¥]?\s*\d+\.\d{2}\s+[￥¥]?\s*(\d+\.\d{2})`,
		`合计税额\s+[￥¥]?\s*(\d+\.\d{2})`,
	)

	totalFiguresPatterns = compileAll(
		`价税合计[（(]小写[)）][\s￥¥]*([\d,]+\.\d{2})`,
		`小写[)）]?[\s￥¥]*([\d,]+\.\d{2})`,
		`¥\s*(\d+\.\d{2})\s*备`,
	)

	totalWordsPatterns = compileAll(
		`价税合计（大写）\s*([零壹贰叁肆伍陆柒捌玖拾佰仟万亿圆角分整]+)\s*[（(]小写[)）]`,
		`（大写）\s*([零壹贰叁肆伍陆柒捌玖拾佰仟万亿圆角分整]+)`,
	)

	drawerPatterns = compileAll(
		`(?m)开票人[:：]\s*([^\n]+?)\s*(?:didi|$)`,
		`(?m)开票人\s*([^\n]+?)\s*(?:didi|$)`,
	)

	whitespace = regexp.MustCompile(`\s+`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// firstGroup returns the first capture group of the first pattern that matches.
func firstGroup(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func firstLiteral(text string, candidates []string) string {
	for _, c := range candidates {
		if strings.Contains(text, c) {
			return c
		}
	}
	return ""
}

// Parse scrapes invoice fields from the text layer of an e-invoice.
func Parse(text string) models.Invoice {
	inv := models.Invoice{
		Type:        firstLiteral(text, invoiceTypes),
		Number:      firstGroup(text, numberPatterns),
		IssueDate:   parseDate(text),
		ServiceType: firstLiteral(text, serviceTypes),
		Items:       parseItems(text),
		Amount:      firstGroup(text, amountPatterns),
		Tax:         firstGroup(text, taxPatterns),
		Travel:      parseTravel(text),
		Drawer:      firstGroup(text, drawerPatterns),
		Remarks:     parseRemarks(text),
	}
	if inv.Type == "" {
		inv.Type = DefaultInvoiceType
	}

	inv.Buyer = models.Party{
		Name:  firstGroup(text, buyerNamePatterns),
		TaxID: firstGroup(text, buyerTaxIDPatterns),
	}
	inv.Seller = models.Party{
		Name:  firstGroup(text, sellerNamePatterns),
		TaxID: firstGroup(text, sellerTaxIDPatterns),
	}
	inv.Total = models.Total{
		Figures: firstGroup(text, totalFiguresPatterns),
		Words:   firstGroup(text, totalWordsPatterns),
	}

	return inv
}

// parseDate returns the issue date as YYYY-MM-DD.
func parseDate(text string) string {
	for _, p := range datePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
	}
	return ""
}

func parseItems(text string) []models.LineItem {
	var items []models.LineItem
	inTable := false
	for _, line := range strings.Split(text, "\n") {
		if !inTable {
			if strings.Contains(line, "项目名称") && strings.Contains(line, "单价") && strings.Contains(line, "数量") {
				inTable = true
			}
			continue
		}

		if strings.Contains(line, "合 计") || strings.Contains(line, "价税合计") || strings.TrimSpace(line) == "" {
			break
		}

		m := itemPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		items = append(items, models.LineItem{
			Name:      strings.TrimSpace(m[1]),
			UnitPrice: m[2],
			Quantity:  m[3],
			Amount:    m[4],
			TaxRate:   m[5],
			Tax:       m[6],
		})
	}
	return items
}

func parseTravel(text string) *models.TravelInfo {
	headerFound := false
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "出行人") && strings.Contains(line, "有效身份证件号") {
			headerFound = true
			continue
		}
		if !headerFound || strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "出行人") || strings.Contains(line, "有效身份证件号") || strings.Contains(line, "价税合计") {
			continue
		}

		fields := whitespace.Split(strings.TrimSpace(line), -1)
		if len(fields) < 6 {
			return nil
		}
		return &models.TravelInfo{
			Traveler:    fields[0],
			IDNumber:    fields[1],
			Date:        fields[2],
			Origin:      fields[3],
			Destination: fields[4],
			Vehicle:     fields[5],
		}
	}
	return nil
}

func parseRemarks(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "备注") || i+1 >= len(lines) {
			continue
		}
		remark := strings.TrimSpace(lines[i+1])
		if remark != "" && remark != "didi" {
			return remark
		}
	}
	return ""
}
