package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/rv32isim/rv32i-emulator/assembler"
)

// handleCreateSession handles POST /api/v1/session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create session: %v", err))
		return
	}

	s.log.WithField("session", session.ID).Info("session created")
	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleListSessions handles GET /api/v1/session
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	})
}

// handleGetSessionStatus handles GET /api/v1/session/{id}
func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	v := session.Debugger.VM
	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID: sessionID,
		PC:        v.PC,
		Cycles:    v.Cycles,
		Halted:    !session.Debugger.Running,
	})
}

// handleDestroySession handles DELETE /api/v1/session/{id}
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.log.WithField("session", sessionID).Info("session destroyed")
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "session destroyed"})
}

// handleLoadProgram handles POST /api/v1/session/{id}/load
func (s *Server) handleLoadProgram(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req LoadProgramRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	image, asmErr := assembler.AssembleFile(req.Source, sessionID)
	if asmErr != nil {
		s.log.WithFields(logrus.Fields{"session": sessionID, "error": asmErr}).Warn("assembly failed")
		writeJSON(w, http.StatusBadRequest, LoadProgramResponse{
			Success: false,
			Error:   asmErr.Error(),
		})
		return
	}

	session.Debugger.Load(image)

	s.log.WithFields(logrus.Fields{"session": sessionID, "words": len(image.Words)}).Info("program loaded")
	s.broadcaster.BroadcastExecution(sessionID, ExecutionOutcome{
		Reason: "loaded",
		Words:  len(image.Words),
	})

	writeJSON(w, http.StatusOK, LoadProgramResponse{
		Success: true,
		Symbols: session.Debugger.Symbols,
	})
}

// handleRun handles POST /api/v1/session/{id}/run
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req RunRequest
	_ = readJSON(r, &req)

	session.Debugger.Running = true
	steps, reason := session.Debugger.RunUntil(req.MaxCycles)
	session.Debugger.Running = false

	v := session.Debugger.VM
	s.broadcaster.BroadcastExecution(sessionID, ExecutionOutcome{
		Reason: reason,
		Steps:  steps,
		PC:     v.PC,
	})
	s.broadcastState(sessionID, session)

	writeJSON(w, http.StatusOK, RunResponse{
		Steps:  steps,
		Reason: reason,
		PC:     v.PC,
		Cycles: v.Cycles,
	})
}

// handleStep handles POST /api/v1/session/{id}/step
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	ok := session.Debugger.Step()
	s.broadcastState(sessionID, session)

	v := session.Debugger.VM
	writeJSON(w, http.StatusOK, RunResponse{
		Steps:  1,
		Reason: stepReason(ok),
		PC:     v.PC,
		Cycles: v.Cycles,
	})
}

func stepReason(ok bool) string {
	if ok {
		return "stepped"
	}
	return "halted"
}

// handleReset handles POST /api/v1/session/{id}/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	session.Debugger.Reset()
	s.broadcastState(sessionID, session)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "vm reset"})
}

// handleGetRegisters handles GET /api/v1/session/{id}/registers
func (s *Server) handleGetRegisters(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	v := session.Debugger.VM
	writeJSON(w, http.StatusOK, RegistersResponse{
		Regs:   v.Regs,
		PC:     v.PC,
		Cycles: v.Cycles,
	})
}

// handleGetMemory handles GET /api/v1/session/{id}/memory
func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	query := r.URL.Query()
	address, err := parseHexOrDec(query.Get("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address parameter")
		return
	}
	length, err := strconv.ParseUint(query.Get("length"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid length parameter")
		return
	}

	const maxRead = 1 << 20
	if length > maxRead {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("length too large (max %d bytes)", maxRead))
		return
	}

	mem := session.Debugger.VM.Mem
	data := make([]byte, 0, length)
	for i := uint64(0); i < length; i++ {
		b, ok := mem.ReadByte(uint32(address) + uint32(i))
		if !ok {
			break
		}
		data = append(data, b)
	}

	writeJSON(w, http.StatusOK, MemoryResponse{
		Address: uint32(address), // #nosec G115 -- parseHexOrDec validates input fits in uint32
		Data:    data,
	})
}

// handleGetDisassembly handles GET /api/v1/session/{id}/disassembly
func (s *Server) handleGetDisassembly(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	query := r.URL.Query()
	address, err := parseHexOrDec(query.Get("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address parameter")
		return
	}
	count, err := strconv.ParseUint(query.Get("count"), 10, 32)
	if err != nil || count == 0 {
		count = 10
	}
	const maxCount = 1000
	if count > maxCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count too large (max %d)", maxCount))
		return
	}

	instructions := make([]InstructionInfo, 0, count)
	for i := uint64(0); i < count; i++ {
		addr := uint32(address) + uint32(i*4) // #nosec G115 -- parseHexOrDec validates input fits in uint32
		word, ok := session.Debugger.VM.Mem.ReadWord(addr)
		if !ok {
			break
		}
		instructions = append(instructions, InstructionInfo{
			Address:     addr,
			Word:        word,
			Disassembly: session.Debugger.DisassembleAt(addr),
			Symbol:      symbolAt(session.Debugger.Symbols, addr),
		})
	}

	writeJSON(w, http.StatusOK, DisassemblyResponse{Instructions: instructions})
}

func symbolAt(symbols map[string]uint32, addr uint32) string {
	for name, symAddr := range symbols {
		if symAddr == addr {
			return name
		}
	}
	return ""
}

// handleAddBreakpoint handles POST /api/v1/session/{id}/breakpoint
func (s *Server) handleAddBreakpoint(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req BreakpointRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bp := session.Debugger.Breakpoints.AddBreakpoint(req.Address, false, "")
	writeJSON(w, http.StatusOK, BreakpointInfo{
		ID:       bp.ID,
		Address:  bp.Address,
		Enabled:  bp.Enabled,
		HitCount: bp.HitCount,
	})
}

// handleDeleteBreakpoint handles DELETE /api/v1/session/{id}/breakpoint/{id}
func (s *Server) handleDeleteBreakpoint(w http.ResponseWriter, r *http.Request, sessionID string, id int) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if err := session.Debugger.Breakpoints.DeleteBreakpoint(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "breakpoint removed"})
}

// handleListBreakpoints handles GET /api/v1/session/{id}/breakpoints
func (s *Server) handleListBreakpoints(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	bps := session.Debugger.Breakpoints.GetAllBreakpoints()
	infos := make([]BreakpointInfo, len(bps))
	for i, bp := range bps {
		infos[i] = BreakpointInfo{ID: bp.ID, Address: bp.Address, Enabled: bp.Enabled, HitCount: bp.HitCount}
	}
	writeJSON(w, http.StatusOK, BreakpointsResponse{Breakpoints: infos})
}

// broadcastState pushes the current register/PC/cycle snapshot to
// subscribed WebSocket clients.
func (s *Server) broadcastState(sessionID string, session *ManagedSession) {
	if s.broadcaster == nil {
		return
	}
	v := session.Debugger.VM
	s.broadcaster.BroadcastState(sessionID, v.Regs, v.PC, v.Cycles)
}

// parseHexOrDec parses a string as either hexadecimal (0x prefix) or decimal.
func parseHexOrDec(str string) (uint64, error) {
	if str == "" {
		return 0, fmt.Errorf("empty string")
	}
	if len(str) > 2 && str[:2] == "0x" {
		return strconv.ParseUint(str[2:], 16, 32)
	}
	return strconv.ParseUint(str, 10, 32)
}
