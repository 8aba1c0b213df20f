package typeset

// identifiers render as <mi>.
var identifiers = map[string]string{
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ", `\epsilon`: "ϵ",
	`\zeta`: "ζ", `\eta`: "η", `\theta`: "θ", `\iota`: "ι", `\kappa`: "κ",
	`\lambda`: "λ", `\mu`: "μ", `\nu`: "ν", `\xi`: "ξ", `\omicron`: "ο",
	`\pi`: "π", `\rho`: "ρ", `\sigma`: "σ", `\tau`: "τ", `\upsilon`: "υ",
	`\phi`: "ϕ", `\chi`: "χ", `\psi`: "ψ", `\omega`: "ω",
	`\Alpha`: "Α", `\Beta`: "Β", `\Gamma`: "Γ", `\Delta`: "Δ", `\Epsilon`: "Ε",
	`\Zeta`: "Ζ", `\Eta`: "Η", `\Theta`: "Θ", `\Iota`: "Ι", `\Kappa`: "Κ",
	`\Lambda`: "Λ", `\Mu`: "Μ", `\Nu`: "Ν", `\Xi`: "Ξ", `\Omicron`: "Ο",
	`\Pi`: "Π", `\Rho`: "Ρ", `\Sigma`: "Σ", `\Tau`: "Τ", `\Upsilon`: "Υ",
	`\Phi`: "Φ", `\Chi`: "Χ", `\Psi`: "Ψ", `\Omega`: "Ω",
	`\hbar`: "ℏ", `\nabla`: "∇",
}

// functions render as upright <mi> names.
var functions = map[string]bool{
	`\arccos`: true, `\arcsin`: true, `\arctan`: true, `\arg`: true,
	`\cos`: true, `\cosh`: true, `\cot`: true, `\coth`: true, `\csc`: true,
	`\deg`: true, `\det`: true, `\dim`: true, `\exp`: true, `\gcd`: true,
	`\hom`: true, `\inf`: true, `\ker`: true, `\lg`: true, `\lim`: true,
	`\liminf`: true, `\limsup`: true, `\ln`: true, `\log`: true, `\max`: true,
	`\min`: true, `\Pr`: true, `\sec`: true, `\sin`: true, `\sinh`: true,
	`\sup`: true, `\tan`: true, `\tanh`: true,
}

// operators render as <mo>.
var operators = map[string]string{
	`\pm`: "±", `\mp`: "∓", `\times`: "×", `\div`: "÷", `\cdot`: "⋅",
	`\ast`: "∗", `\star`: "⋆", `\circ`: "∘", `\bullet`: "∙", `\cap`: "∩",
	`\cup`: "∪", `\vee`: "∨", `\wedge`: "∧", `\setminus`: "∖", `\oplus`: "⊕",
	`\ominus`: "⊖", `\otimes`: "⊗", `\oslash`: "⊘", `\odot`: "⊙",
	`\dagger`: "†", `\ddagger`: "‡", `\amalg`: "⨿", `\uplus`: "⊎",
	`\sqcap`: "⊓", `\sqcup`: "⊔", `\diamond`: "⋄", `\wr`: "≀",
	`\approx`: "≈", `\asymp`: "≍", `\cong`: "≅", `\doteq`: "≐", `\equiv`: "≡",
	`\geq`: "≥", `\leq`: "≤", `\gg`: "≫", `\ll`: "≪", `\in`: "∈", `\ni`: "∋",
	`\neq`: "≠", `\mid`: "∣", `\parallel`: "∥", `\perp`: "⊥", `\prec`: "≺",
	`\preceq`: "⪯", `\succ`: "≻", `\succeq`: "⪰", `\propto`: "∝", `\sim`: "∼",
	`\simeq`: "≃", `\subset`: "⊂", `\subseteq`: "⊆", `\supset`: "⊃",
	`\supseteq`: "⊇", `\models`: "⊨", `\vdash`: "⊢", `\dashv`: "⊣",
	`\leftarrow`: "←", `\rightarrow`: "→", `\leftrightarrow`: "↔",
	`\Leftarrow`: "⇐", `\Rightarrow`: "⇒", `\Leftrightarrow`: "⇔",
	`\longleftarrow`: "⟵", `\longrightarrow`: "⟶", `\Longrightarrow`: "⟹",
	`\Longleftarrow`: "⟸", `\Longleftrightarrow`: "⟺", `\mapsto`: "↦",
	`\uparrow`: "↑", `\downarrow`: "↓", `\Uparrow`: "⇑", `\Downarrow`: "⇓",
	`\sum`: "∑", `\prod`: "∏", `\coprod`: "∐", `\int`: "∫", `\oint`: "∮",
	`\bigcap`: "⋂", `\bigcup`: "⋃", `\bigvee`: "⋁", `\bigwedge`: "⋀",
	`\bigoplus`: "⨁", `\bigotimes`: "⨂", `\bigodot`: "⨀",
	`\dots`: "…", `\ldots`: "…", `\cdots`: "⋯", `\vdots`: "⋮", `\ddots`: "⋱",
	`\ldotp`: ".", `\cdotp`: "⋅",
	`\langle`: "⟨", `\rangle`: "⟩", `\lceil`: "⌈", `\rceil`: "⌉",
	`\lfloor`: "⌊", `\rfloor`: "⌋", `\vert`: "|", `\Vert`: "‖",
	`\backslash`: "∖",
}

// symbolOperators maps ASCII symbols to the characters MathML expects.
var symbolOperators = map[string]string{
	"-": "−",
	"*": "∗",
	"'": "′",
}

// spaces gives the width of spacing commands.
var spaces = map[string]string{
	`\quad`:  "1em",
	`\qquad`: "2em",
}

// variants maps font commands to MathML mathvariant values.
var variants = map[string]string{
	`\mathbf`:      "bold",
	`\mathit`:      "italic",
	`\mathsf`:      "sans-serif",
	`\mathtt`:      "monospace",
	`\mathcal`:     "script",
	`\mathscr`:     "script",
	`\mathbb`:      "double-struck",
	`\mathfrak`:    "fraktur",
	`\mathdefault`: "normal",
	`\mathregular`: "normal",
	`\textbf`:      "bold",
	`\textit`:      "italic",
	`\textsf`:      "sans-serif",
	`\texttt`:      "monospace",
	`\textdefault`: "normal",
	`\textregular`: "normal",
}
