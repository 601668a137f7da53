// Package dto はleadsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "leadhub/internal/feature/leads/usecase"

// LeadReq はリード作成・更新のリクエストボディです。
// 必須項目のチェックはusecaseで行い、ここでは列挙値だけを検証します。
type LeadReq struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	LeadStatus string `json:"leadStatus" binding:"omitempty,leadstatus"`
	LeadSource string `json:"leadSource" binding:"omitempty,leadsource"`
}

// ToInput はリクエストをusecaseの入力に変換します。
func (r LeadReq) ToInput() usecase.LeadInput {
	return usecase.LeadInput{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Company:    r.Company,
		LeadStatus: r.LeadStatus,
		LeadSource: r.LeadSource,
	}
}
