package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rushteam/tripkit/core"
)

// SavePreferences 校验并保存用户偏好（覆盖已有偏好）。
func (s *RankingService) SavePreferences(ctx context.Context, userID string, prefs Preferences) error {
	if err := s.requireStore(userID); err != nil {
		return err
	}
	if err := s.validatePreferences(prefs); err != nil {
		return err
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError, "encode preferences", err)
	}
	if err := s.store.Set(ctx, prefsKey(userID), data); err != nil {
		return storeErr("save preferences", err)
	}
	return nil
}

// GetPreferences 读取用户偏好，不存在时返回 NOT_FOUND。
func (s *RankingService) GetPreferences(ctx context.Context, userID string) (Preferences, error) {
	if err := s.requireStore(userID); err != nil {
		return Preferences{}, err
	}
	data, err := s.store.Get(ctx, prefsKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return Preferences{}, core.NewDomainError(core.ModuleService, core.ErrorCodeNotFound, "no preferences for user "+userID)
		}
		return Preferences{}, storeErr("get preferences", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError, "decode preferences", err)
	}
	return prefs, nil
}

// Block 把航司代码 / 酒店品牌 / 报价 ID 加入用户屏蔽列表。
func (s *RankingService) Block(ctx context.Context, userID, value string) error {
	value, err := s.blockArgs(userID, value)
	if err != nil {
		return err
	}
	if err := s.store.SAdd(ctx, blockKey(userID), value); err != nil {
		return storeErr("block", err)
	}
	return nil
}

// Unblock 从用户屏蔽列表移除一个值。
func (s *RankingService) Unblock(ctx context.Context, userID, value string) error {
	value, err := s.blockArgs(userID, value)
	if err != nil {
		return err
	}
	if err := s.store.SRem(ctx, blockKey(userID), value); err != nil {
		return storeErr("unblock", err)
	}
	return nil
}

// Blocked 返回用户屏蔽列表（字典序）。
func (s *RankingService) Blocked(ctx context.Context, userID string) ([]string, error) {
	if err := s.requireStore(userID); err != nil {
		return nil, err
	}
	values, err := s.store.SMembers(ctx, blockKey(userID))
	if err != nil {
		return nil, storeErr("list blocked", err)
	}
	sort.Strings(values)
	return values, nil
}

// loadPreferences 读取排序时使用的用户偏好；不存在或读取失败时返回空偏好。
func (s *RankingService) loadPreferences(ctx context.Context, userID string) Preferences {
	if userID == "" || s.store == nil {
		return Preferences{}
	}
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		if !core.IsNotFound(err) {
			s.metrics.IncStoreFailOpen("preferences")
			s.logger.Warn("load preferences failed, using defaults", zap.String("user_id", userID), zap.Error(err))
		}
		return Preferences{}
	}
	return prefs
}

func (s *RankingService) validatePreferences(prefs Preferences) error {
	if prefs.Preset != "" {
		if _, err := s.presets.Flight(prefs.Preset); err != nil {
			if _, herr := s.presets.Hotel(prefs.Preset); herr != nil {
				return err
			}
		}
	}
	if err := prefs.Flight.Validate(); err != nil {
		return err
	}
	return prefs.Hotel.Validate()
}

func (s *RankingService) blockArgs(userID, value string) (string, error) {
	if err := s.requireStore(userID); err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", core.InvalidInput(core.ModuleService, "blocked value is required")
	}
	return value, nil
}

func storeErr(op string, err error) error {
	if core.IsStoreUnavailable(err) {
		return core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable, op, err)
	}
	return core.WrapDomainError(core.ModuleService, core.ErrorCodeInternalError, op, err)
}

func prefsKey(userID string) string { return PrefsKeyPrefix + ":" + userID }
func blockKey(userID string) string { return BlockKeyPrefix + ":" + userID }
