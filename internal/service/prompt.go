package service

import "fmt"

const analysisPromptTemplate = `你是一位资深的A股证券分析师，擅长结合基本面、资金面和技术面对个股进行综合研判。

请基于下面提供的股票数据，为 %s 撰写一份专业的中文分析报告（Markdown 格式）。

数据说明：
- basic: 公司基本信息
- quotes: 最近约90日的前复权日线行情
- fundamentals: 每日基本面指标（估值、换手率等）
- moneyflows: 个股资金流向
- income: 最近8期利润表摘要
- technical_indicators: 最近60个交易日的技术指标（量比、MACD柱、RSI、布林带宽度与突破、5日净流入均值、周线KDJ信号）
- professional_indicators_analysis: 专业技术因子的文字解读

报告要求：
1. 以一级标题"%s 综合分析报告"开头。
2. 包含以下章节：公司概况、基本面分析、资金面分析、技术面分析、综合结论与风险提示。
3. 技术面分析必须引用 technical_indicators 与 professional_indicators_analysis 中的具体数值。
4. 结论需给出明确的短期（1-2周）和中期（1-3月）观点，并说明依据。
5. 末尾附上一行免责声明：本报告由AI生成，仅供参考，不构成任何投资建议。

股票数据（JSON）：
%s
`

// BuildAnalysisPrompt renders the analyst prompt for one stock.
func BuildAnalysisPrompt(tsCode, dataJSON string) string {
	return fmt.Sprintf(analysisPromptTemplate, tsCode, tsCode, dataJSON)
}
