// Package usecase はリード管理のビジネスロジックを実装します。
// すべての操作は呼び出しユーザー（owner）のリードに限定されます。
package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadhub/internal/feature/leads/domain/entity"
)

// emailPattern はリードのメールアドレスの形式チェックです。
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// LeadRepository はリードの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type LeadRepository interface {
	// Create は新しいリードを保存します。
	Create(ctx context.Context, lead *entity.Lead) error
	// FindByID は owner が所有するリードを取得します。存在しない場合は ErrLeadNotFound を返します。
	FindByID(ctx context.Context, owner, id string) (*entity.Lead, error)
	// Update は lead.CreatedBy が所有するリードを上書きします。存在しない場合は ErrLeadNotFound を返します。
	Update(ctx context.Context, lead *entity.Lead) error
	// Delete は owner が所有するリードを削除します。存在しない場合は ErrLeadNotFound を返します。
	Delete(ctx context.Context, owner, id string) error
	// List は条件に一致する1ページ分のリードと、ページングなしの総件数を返します。
	List(ctx context.Context, owner string, q ListQuery) ([]entity.Lead, int64, error)
}

// LeadInput はリード作成・更新の入力です。空文字は「未指定」を意味します。
type LeadInput struct {
	Name       string
	Email      string
	Phone      string
	Company    string
	LeadStatus string
	LeadSource string
}

func (in LeadInput) trimmed() LeadInput {
	return LeadInput{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:      strings.TrimSpace(in.Phone),
		Company:    strings.TrimSpace(in.Company),
		LeadStatus: strings.TrimSpace(in.LeadStatus),
		LeadSource: strings.TrimSpace(in.LeadSource),
	}
}

// leadUsecase はリード操作のユースケースを実装します。
type leadUsecase struct {
	leads LeadRepository
	now   func() time.Time
}

// NewLeadUsecase はleadUsecaseの新しいインスタンスを生成します。
func NewLeadUsecase(leads LeadRepository) *leadUsecase {
	return &leadUsecase{
		leads: leads,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create は owner のリードを作成します。
// 必須項目（name, email, phone, company, leadSource）が欠けている場合は欠けた項目を列挙した
// ValidationError を返します。leadStatus 未指定時は New になります。
func (u *leadUsecase) Create(ctx context.Context, owner string, in LeadInput) (*entity.Lead, error) {
	in = in.trimmed()

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"company", in.Company},
		{"leadSource", in.LeadSource},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	if in.LeadStatus == "" {
		in.LeadStatus = string(entity.StatusNew)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := u.now()
	lead := &entity.Lead{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Company:    in.Company,
		LeadStatus: entity.LeadStatus(in.LeadStatus),
		LeadSource: entity.LeadSource(in.LeadSource),
		CreatedBy:  owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// GetByID は owner が所有するリードを返します。
func (u *leadUsecase) GetByID(ctx context.Context, owner, id string) (*entity.Lead, error) {
	return u.leads.FindByID(ctx, owner, id)
}

// Update は空でない項目だけを置き換え、updatedAt を更新します。
// 同時更新は後勝ちです。
func (u *leadUsecase) Update(ctx context.Context, owner, id string, in LeadInput) (*entity.Lead, error) {
	in = in.trimmed()
	if err := validateInput(in); err != nil {
		return nil, err
	}

	lead, err := u.leads.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		lead.Name = in.Name
	}
	if in.Email != "" {
		lead.Email = in.Email
	}
	if in.Phone != "" {
		lead.Phone = in.Phone
	}
	if in.Company != "" {
		lead.Company = in.Company
	}
	if in.LeadStatus != "" {
		lead.LeadStatus = entity.LeadStatus(in.LeadStatus)
	}
	if in.LeadSource != "" {
		lead.LeadSource = entity.LeadSource(in.LeadSource)
	}
	lead.UpdatedAt = u.now()

	if err := u.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// Delete は owner が所有するリードを削除します。
func (u *leadUsecase) Delete(ctx context.Context, owner, id string) error {
	return u.leads.Delete(ctx, owner, id)
}

// ListLeads は検索・フィルタ・ソート・ページングを適用したリードの1ページを返します。
// owner 条件は常に適用され、呼び出し側から上書きできません。
func (u *leadUsecase) ListLeads(ctx context.Context, owner string, q ListQuery) (*LeadPage, error) {
	q = q.clamp()
	items, total, err := u.leads.List(ctx, owner, q)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	if items == nil {
		items = []entity.Lead{}
	}
	return &LeadPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages(total, q.Limit),
	}, nil
}

// validateInput は指定済みの項目だけを検証します。
func validateInput(in LeadInput) error {
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		return invalidField("email", "Please provide a valid email")
	}
	if in.LeadStatus != "" && !entity.LeadStatus(in.LeadStatus).IsValid() {
		return invalidField("leadStatus",
			"leadStatus must be one of: "+strings.Join(entity.StatusNames(), ", "))
	}
	if in.LeadSource != "" && !entity.LeadSource(in.LeadSource).IsValid() {
		return invalidField("leadSource",
			"leadSource must be one of: "+strings.Join(entity.SourceNames(), ", "))
	}
	return nil
}
