package models

// Значения перечислений хранятся и передаются как есть (локализованные строки),
// менять их нельзя: они записаны в БД и сравниваются клиентами.

type UserRole string

const (
	RoleFighter    UserRole = "Боец"
	RoleTrainer    UserRole = "Тренер"
	RoleManager    UserRole = "Менеджер"
	RolePromotion  UserRole = "Промоушен"
	RoleClub       UserRole = "Клуб"
	RoleMatchmaker UserRole = "Матчмейкер"
	RoleAdmin      UserRole = "Админ"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleFighter, RoleTrainer, RoleManager, RolePromotion, RoleClub, RoleMatchmaker, RoleAdmin:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "М"
	GenderFemale Gender = "Ж"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// VerificationStatus - статус проверки профиля бойца.
type VerificationStatus string

const (
	VerificationUnderReview VerificationStatus = "На проверке"
	VerificationVerified    VerificationStatus = "Проверен"
	VerificationRejected    VerificationStatus = "Отклонён"
)

func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationUnderReview, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// ParticipationStatus - текущая принадлежность бойца (клуб, промоушен, свободный агент).
type ParticipationStatus string

const (
	ParticipationActive        ParticipationStatus = "Активный"
	ParticipationClubOnly      ParticipationStatus = "В клубе, без промоушена"
	ParticipationPromotionOnly ParticipationStatus = "В промоушене, без клуба"
	ParticipationFreeAgent     ParticipationStatus = "Свободный агент"
	ParticipationUnderReview   ParticipationStatus = "На рассмотрении"
)

func (s ParticipationStatus) IsValid() bool {
	switch s {
	case ParticipationActive, ParticipationClubOnly, ParticipationPromotionOnly, ParticipationFreeAgent, ParticipationUnderReview:
		return true
	}
	return false
}

type ContractStatus string

const (
	ContractUnderReview ContractStatus = "На проверке"
	ContractVerified    ContractStatus = "Верифицирован"
	ContractRejected    ContractStatus = "Отклонён"
	ContractExpired     ContractStatus = "Истёк"
	ContractExhausted   ContractStatus = "Исчерпан"
	ContractAbsent      ContractStatus = "Отсутствует"
)

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractUnderReview, ContractVerified, ContractRejected, ContractExpired, ContractExhausted, ContractAbsent:
		return true
	}
	return false
}

type ApplicationStatus string

const (
	ApplicationDraft                 ApplicationStatus = "Черновик"
	ApplicationSubmitted             ApplicationStatus = "Отправлена"
	ApplicationUnderMatchmakerReview ApplicationStatus = "На проверке матчмейкера"
	ApplicationApproved              ApplicationStatus = "Утверждена"
	ApplicationWaitingList           ApplicationStatus = "В листе ожидания"
	ApplicationRejected              ApplicationStatus = "Отклонена"
	ApplicationConfirmed             ApplicationStatus = "Подтверждена"
	ApplicationBlocked               ApplicationStatus = "Заблокирована"
	ApplicationCompleted             ApplicationStatus = "Завершена"
	ApplicationNeedsCorrection       ApplicationStatus = "Требует исправлений"
	ApplicationWithdrawn             ApplicationStatus = "Отозвана"
	ApplicationOverdue               ApplicationStatus = "Просрочена"
)

// ApplicationStatuses перечисляет все статусы заявки в порядке жизненного цикла.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationDraft,
	ApplicationSubmitted,
	ApplicationUnderMatchmakerReview,
	ApplicationApproved,
	ApplicationWaitingList,
	ApplicationRejected,
	ApplicationConfirmed,
	ApplicationBlocked,
	ApplicationCompleted,
	ApplicationNeedsCorrection,
	ApplicationWithdrawn,
	ApplicationOverdue,
}

func (s ApplicationStatus) IsValid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type FightResult string

const (
	ResultWin       FightResult = "Победа"
	ResultLoss      FightResult = "Поражение"
	ResultDraw      FightResult = "Ничья"
	ResultNoContest FightResult = "No Contest"
)

func (r FightResult) IsValid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultDraw, ResultNoContest:
		return true
	}
	return false
}

type FightMethod string

const (
	MethodKO         FightMethod = "KO"
	MethodSubmission FightMethod = "Submission"
	MethodTKO        FightMethod = "TKO"
	MethodDecision   FightMethod = "Decision"
	MethodDQ         FightMethod = "DQ"
)

func (m FightMethod) IsValid() bool {
	switch m {
	case MethodKO, MethodSubmission, MethodTKO, MethodDecision, MethodDQ:
		return true
	}
	return false
}

type EventType string

const (
	EventTypeFight      EventType = "Бой"
	EventTypeTournament EventType = "Турнир"
	EventTypeF2F        EventType = "F2F"
	EventTypeSelection  EventType = "Selection"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventTypeFight, EventTypeTournament, EventTypeF2F, EventTypeSelection:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "К выполнению"
	TaskInProgress TaskStatus = "В работе"
	TaskDone       TaskStatus = "Выполнено"
	TaskOverdue    TaskStatus = "Просрочено"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone, TaskOverdue:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
